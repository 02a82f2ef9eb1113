package report

import (
	"context"
	"fmt"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/xuri/excelize/v2"
)

// Service builds exportable attendance reports.
type Service interface {
	// ExportAttendance renders the organization's attendance records for the
	// filter window as an XLSX workbook. Requires team or org visibility.
	ExportAttendance(ctx context.Context, filter attendance.AllAttendanceFilter) (*excelize.File, string, error)
}

type ReportServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	settingsService company.SettingsService
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, settingsService company.SettingsService) Service {
	return &ReportServiceImpl{
		attendanceRepo:  attendanceRepo,
		settingsService: settingsService,
	}
}

type requester struct {
	userID       string
	organization string
	role         user.Role
}

func requesterFromContext(ctx context.Context) (requester, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return requester{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return requester{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	organization, ok := claims["organization"].(string)
	if !ok || organization == "" {
		return requester{}, fmt.Errorf("organization claim is missing or invalid")
	}
	role, _ := claims["role"].(string)

	return requester{
		userID:       userID,
		organization: organization,
		role:         user.Role(role),
	}, nil
}

const exportSheet = "Attendance"

var exportHeaders = []string{"Date", "Employee", "Department", "Status", "Clock In", "Clock Out", "Work (h)", "Break (h)", "Remarks"}

// ExportAttendance implements Service.
func (s *ReportServiceImpl) ExportAttendance(ctx context.Context, filter attendance.AllAttendanceFilter) (*excelize.File, string, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return nil, "", err
	}
	if !user.CanViewAllAttendance(req.role) && !user.CanViewTeamAttendance(req.role) {
		return nil, "", attendance.ErrUnauthorized
	}

	filter.Page = 1
	filter.Limit = 10000

	records, _, err := s.attendanceRepo.ListAll(ctx, req.organization, filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list attendance for export: %w", err)
	}

	settings, _, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve settings: %w", err)
	}
	loc := settings.Location()
	now := time.Now().In(loc)

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	f.SetRowHeight(exportSheet, 1, 22)

	for i, a := range records {
		row := i + 2
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), a.Date.Format("2006-01-02"))
		if a.EmployeeName != nil {
			f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), *a.EmployeeName)
		}
		if a.EmployeeDepartment != nil {
			f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), *a.EmployeeDepartment)
		}
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), a.Status)
		if a.ClockIn != nil {
			f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), a.ClockIn.In(loc).Format("15:04"))
		}
		if a.ClockOut != nil {
			f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), a.ClockOut.In(loc).Format("15:04"))
		}
		f.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), float64(a.TotalWorkMinutes(now))/60.0)
		f.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), float64(a.TotalBreakMinutes(now))/60.0)
		if a.Remarks != nil {
			f.SetCellValue(exportSheet, fmt.Sprintf("I%d", row), *a.Remarks)
		}
	}

	f.SetColWidth(exportSheet, "A", "A", 12)
	f.SetColWidth(exportSheet, "B", "C", 22)
	f.SetColWidth(exportSheet, "D", "F", 12)
	f.SetColWidth(exportSheet, "I", "I", 40)

	filename := fmt.Sprintf("attendance_report_%s.xlsx", now.Format("2006-01-02"))
	return f, filename, nil
}
