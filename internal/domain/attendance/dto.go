package attendance

import (
	"time"

	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	LocationType string   `json:"location_type,omitempty"` // Office (default) / Remote / free text
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type StartBreakRequest struct {
	Reason *string `json:"reason,omitempty"`
}

type BreakResponse struct {
	ID        string  `json:"id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

type AttendanceResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	EmployeeDepartment *string         `json:"employee_department,omitempty"`
	Date               string          `json:"date"`
	ClockIn            *string         `json:"clock_in,omitempty"`
	ClockOut           *string         `json:"clock_out,omitempty"`
	Breaks             []BreakResponse `json:"breaks"`
	Status             string          `json:"status"`
	Remarks            *string         `json:"remarks,omitempty"`
	LocationType       string          `json:"location_type"`
	Latitude           *float64        `json:"latitude,omitempty"`
	Longitude          *float64        `json:"longitude,omitempty"`
	Address            *string         `json:"address,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	TotalWorkMinutes   int             `json:"total_work_minutes"`
	TotalBreakMinutes  int             `json:"total_break_minutes"`
}

// ToResponse maps an Attendance entity to its API shape, deriving totals
// as of asOf.
func ToResponse(a Attendance, asOf time.Time) AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(a.Breaks))
	for _, b := range a.Breaks {
		br := BreakResponse{
			ID:        b.ID,
			StartTime: b.StartTime.Format(time.RFC3339),
			Reason:    b.Reason,
		}
		if b.EndTime != nil {
			end := b.EndTime.Format(time.RFC3339)
			br.EndTime = &end
		}
		breaks = append(breaks, br)
	}

	return AttendanceResponse{
		ID:                 a.ID,
		EmployeeID:         a.EmployeeID,
		EmployeeName:       a.EmployeeName,
		EmployeeDepartment: a.EmployeeDepartment,
		Date:               a.Date.Format("2006-01-02"),
		ClockIn:            timePtrToString(a.ClockIn),
		ClockOut:           timePtrToString(a.ClockOut),
		Breaks:             breaks,
		Status:             a.Status,
		Remarks:            a.Remarks,
		LocationType:       a.LocationType,
		Latitude:           a.Latitude,
		Longitude:          a.Longitude,
		Address:            a.Address,
		Notes:              a.Notes,
		TotalWorkMinutes:   a.TotalWorkMinutes(asOf),
		TotalBreakMinutes:  a.TotalBreakMinutes(asOf),
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

// TodayResponse carries the current record plus the action flags the client
// uses to enable buttons.
type TodayResponse struct {
	Attendance    *AttendanceResponse `json:"attendance,omitempty"`
	CanClockIn    bool                `json:"can_clock_in"`
	CanClockOut   bool                `json:"can_clock_out"`
	CanStartBreak bool                `json:"can_start_break"`
	CanEndBreak   bool                `json:"can_end_break"`
}

type AttendanceFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a YYYY-MM-DD date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// StatsResponse aggregates a rolling window of records.
type StatsResponse struct {
	EmployeeID      string  `json:"employee_id"`
	PeriodDays      int     `json:"period_days"`
	TotalDays       int     `json:"total_days"`
	PresentDays     int     `json:"present_days"`
	LateDays        int     `json:"late_days"`
	HalfDays        int     `json:"half_days"`
	AbsentDays      int     `json:"absent_days"`
	TotalWorkHours  float64 `json:"total_work_hours"`
	TotalBreakHours float64 `json:"total_break_hours"`
	AvgWorkHours    float64 `json:"avg_work_hours"`
	AttendanceRate  float64 `json:"attendance_rate"`
	PunctualityRate float64 `json:"punctuality_rate"`
}

// HistoryEntry is one calendar cell of the monthly view.
type HistoryEntry struct {
	Date             string  `json:"date"`
	Status           string  `json:"status"`
	Remarks          *string `json:"remarks,omitempty"`
	ClockIn          *string `json:"clock_in,omitempty"`
	ClockOut         *string `json:"clock_out,omitempty"`
	TotalWorkMinutes int     `json:"total_work_minutes"`
	IsWeeklyOff      bool    `json:"is_weekly_off"`
}

type HistoryResponse struct {
	Month   int            `json:"month"`
	Year    int            `json:"year"`
	Entries []HistoryEntry `json:"entries"`
}

// AllAttendanceFilter drives the cross-employee aggregation endpoint.
type AllAttendanceFilter struct {
	StartDate  *string
	EndDate    *string
	Department *string
	Status     *string
	Page       int
	Limit      int
}
