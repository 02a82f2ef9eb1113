package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/handler/http/response"
	"github.com/ems-suite/ems-backend-go/internal/service/report"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.Service) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var clockInReq attendance.ClockInRequest

	if err := json.NewDecoder(r.Body).Decode(&clockInReq); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.ClockIn(r.Context(), clockInReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Clocked in", result)
}

// ClockOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var clockOutReq attendance.ClockOutRequest

	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&clockOutReq); err != nil {
			slog.Error("ClockOut decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.attendanceService.ClockOut(r.Context(), clockOutReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Clocked out", result)
}

// StartBreak implements AttendanceHandler.
func (h *AttendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	var breakReq attendance.StartBreakRequest

	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&breakReq); err != nil {
			slog.Error("StartBreak decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	result, err := h.attendanceService.StartBreak(r.Context(), breakReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break started", result)
}

// EndBreak implements AttendanceHandler.
func (h *AttendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.EndBreak(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Break ended", result)
}

// GetToday implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Status:     queryString(r, "status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}

	result, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetStats implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetStats(r.Context(), queryString(r, "employee_id"), queryInt(r, "period", 30))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetHistory implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	month := queryInt(r, "month", int(now.Month()))
	year := queryInt(r, "year", now.Year())

	result, err := h.attendanceService.GetHistory(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListAll implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := allAttendanceFilterFromQuery(r)

	result, err := h.attendanceService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Export implements AttendanceHandler. Streams an XLSX workbook.
func (h *AttendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	filter := allAttendanceFilterFromQuery(r)

	f, filename, err := h.reportService.ExportAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(w); err != nil {
		slog.Error("Export write error", "error", err)
	}
}

func allAttendanceFilterFromQuery(r *http.Request) attendance.AllAttendanceFilter {
	return attendance.AllAttendanceFilter{
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
		Department: queryString(r, "department"),
		Status:     queryString(r, "status"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
}
