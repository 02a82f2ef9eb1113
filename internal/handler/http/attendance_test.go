package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statsRecordingService captures the arguments GetStats is called with; the
// embedded interface leaves every other method unimplemented.
type statsRecordingService struct {
	attendance.AttendanceService
	employeeID *string
	period     int
}

func (s *statsRecordingService) GetStats(ctx context.Context, employeeID *string, periodDays int) (attendance.StatsResponse, error) {
	s.employeeID = employeeID
	s.period = periodDays
	return attendance.StatsResponse{EmployeeID: "emp-1", PeriodDays: periodDays}, nil
}

func TestGetStatsQueryParams(t *testing.T) {
	svc := &statsRecordingService{}
	handler := NewAttendanceHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/stats?period=7&employee_id=emp-2", nil)
	w := httptest.NewRecorder()
	handler.GetStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, svc.period)
	require.NotNil(t, svc.employeeID)
	assert.Equal(t, "emp-2", *svc.employeeID)

	svc = &statsRecordingService{}
	handler = NewAttendanceHandler(svc, nil)
	handler.GetStats(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/attendance/stats", nil))

	assert.Equal(t, 30, svc.period)
	assert.Nil(t, svc.employeeID)
}
