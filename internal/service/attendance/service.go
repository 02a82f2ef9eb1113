package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

// Reward points are intentionally simple: a fixed punctuality deadline
// (independent of the organization's grace configuration) and a flat bonus
// for completing the day.
const (
	punctualityBonusDeadline = "09:15"
	punctualityBonusPoints   = 5
	clockOutBonusPoints      = 10
)

type AttendanceServiceImpl struct {
	attendanceRepo  attendance.AttendanceRepository
	userRepo        user.UserRepository
	auditRepo       audit.Repository
	settingsService company.SettingsService
	notificator     notification.Service
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	auditRepo audit.Repository,
	settingsService company.SettingsService,
	notificator notification.Service,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo:  attendanceRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
		settingsService: settingsService,
		notificator:     notificator,
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

// dateOf normalizes a local time to its calendar day, stored as midnight
// UTC so the unique (employee_id, date) key compares by day only.
func dateOf(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *AttendanceServiceImpl) calculate(settings company.Settings, found bool, clockIn time.Time, clockOut *time.Time) company.StatusResult {
	if found {
		return settings.CalculateAttendanceStatus(clockIn, clockOut)
	}
	return company.CalculateDefaultStatus(clockIn, clockOut)
}

func (s *AttendanceServiceImpl) writeAudit(ctx context.Context, action, actorID string, entityID *string, success bool, detail *string) {
	// Best-effort: the transition must not fail because auditing did.
	_ = s.auditRepo.Create(ctx, audit.Entry{
		Action:   action,
		ActorID:  actorID,
		Entity:   "attendance",
		EntityID: entityID,
		Success:  success,
		Detail:   detail,
	})
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, clockInReq attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := clockInReq.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, found, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())
	today := dateOf(now)

	locationType := clockInReq.LocationType
	if locationType == "" {
		locationType = company.LocationOffice
	}
	if settings.Attendance.RequireLocationForClockIn && clockInReq.Latitude == nil {
		s.writeAudit(ctx, audit.ActionClockIn, req.userID, nil, false, strPtr("location missing"))
		return attendance.AttendanceResponse{}, attendance.ErrLocationRequired
	}
	if locationType == company.LocationRemote && !settings.Attendance.AllowRemoteWork {
		s.writeAudit(ctx, audit.ActionClockIn, req.userID, nil, false, strPtr("remote not allowed"))
		return attendance.AttendanceResponse{}, attendance.ErrRemoteNotAllowed
	}

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.userID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil && existing.ClockIn != nil {
		s.writeAudit(ctx, audit.ActionClockIn, req.userID, &existing.ID, false, strPtr("duplicate clock-in"))
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	result := s.calculate(settings, found, now, nil)

	clockIn := now
	record := attendance.Attendance{
		EmployeeID:   req.userID,
		Organization: req.organization,
		Date:         today,
		ClockIn:      &clockIn,
		Status:       result.Status,
		Remarks:      &result.Remarks,
		LocationType: locationType,
		Latitude:     clockInReq.Latitude,
		Longitude:    clockInReq.Longitude,
		Address:      clockInReq.Address,
		Notes:        clockInReq.Notes,
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		// The unique day key closes the race between concurrent clock-ins.
		return attendance.AttendanceResponse{}, err
	}

	if min, ok := validator.MinuteOfDay(now.Format("15:04")); ok {
		if deadline, dok := validator.MinuteOfDay(punctualityBonusDeadline); dok && min <= deadline {
			_ = s.userRepo.AddRewardPoints(ctx, req.userID, punctualityBonusPoints)
		}
	}

	s.writeAudit(ctx, audit.ActionClockIn, req.userID, &created.ID, true, &result.Remarks)

	if result.Status == company.StatusLate && settings.Notification.NotifyOnLateArrival {
		s.notifyLateArrival(ctx, req.userID, result.Remarks)
	}

	return attendance.ToResponse(created, now), nil
}

func (s *AttendanceServiceImpl) notifyLateArrival(ctx context.Context, employeeID, remarks string) {
	u, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil || u.ManagerID == nil {
		return
	}
	s.notificator.Notify(notification.CreateNotificationRequest{
		RecipientID: *u.ManagerID,
		SenderID:    &employeeID,
		Type:        notification.TypeLateArrival,
		Title:       "Late arrival",
		Message:     fmt.Sprintf("%s clocked in late: %s", u.Name, remarks),
		Data:        map[string]interface{}{"employee_id": employeeID},
	})
}

// ClockOut implements attendance.AttendanceService. An open break is closed
// at the clock-out instant before totals are computed.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, clockOutReq attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, found, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.userID, dateOf(now))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record == nil || record.ClockIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}
	if record.ClockOut != nil {
		s.writeAudit(ctx, audit.ActionClockOut, req.userID, &record.ID, false, strPtr("duplicate clock-out"))
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}

	if open := record.OpenBreak(); open != nil {
		if err := s.attendanceRepo.CloseBreak(ctx, open.ID, now); err != nil {
			return attendance.AttendanceResponse{}, err
		}
		end := now
		open.EndTime = &end
	}

	result := s.calculate(settings, found, *record.ClockIn, &now)
	status := company.StatusClockedOut
	if result.Status == company.StatusHalfDay {
		status = company.StatusHalfDay
	}

	clockOut := now
	record.ClockOut = &clockOut
	record.Status = status
	record.Remarks = &result.Remarks
	if clockOutReq.Notes != nil {
		record.Notes = clockOutReq.Notes
	}

	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	_ = s.userRepo.AddRewardPoints(ctx, req.userID, clockOutBonusPoints)

	s.writeAudit(ctx, audit.ActionClockOut, req.userID, &record.ID, true, &result.Remarks)

	return attendance.ToResponse(*record, now), nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, breakReq attendance.StartBreakRequest) (attendance.AttendanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, _, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.userID, dateOf(now))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record == nil || record.ClockIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}
	if record.ClockOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}
	if record.OpenBreak() != nil {
		s.writeAudit(ctx, audit.ActionBreakStart, req.userID, &record.ID, false, strPtr("break already open"))
		return attendance.AttendanceResponse{}, attendance.ErrBreakInProgress
	}

	created, err := s.attendanceRepo.AddBreak(ctx, attendance.Break{
		AttendanceID: record.ID,
		StartTime:    now,
		Reason:       breakReq.Reason,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record.Breaks = append(record.Breaks, created)
	record.Status = company.StatusOnBreak
	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.writeAudit(ctx, audit.ActionBreakStart, req.userID, &record.ID, true, breakReq.Reason)

	return attendance.ToResponse(*record, now), nil
}

// EndBreak implements attendance.AttendanceService. The record reverts to
// the status band its clock-in earned.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	settings, found, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.userID, dateOf(now))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record == nil || record.ClockIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotClockedIn
	}

	open := record.OpenBreak()
	if open == nil {
		s.writeAudit(ctx, audit.ActionBreakEnd, req.userID, &record.ID, false, strPtr("no open break"))
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
	}

	if err := s.attendanceRepo.CloseBreak(ctx, open.ID, now); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	end := now
	open.EndTime = &end

	if found {
		record.Status = record.PreBreakStatus(&settings)
	} else {
		record.Status = record.PreBreakStatus(nil)
	}
	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.writeAudit(ctx, audit.ActionBreakEnd, req.userID, &record.ID, true, nil)

	return attendance.ToResponse(*record, now), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	settings, _, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.userID, dateOf(now))
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	resp := attendance.TodayResponse{
		CanClockIn:    record.CanClockIn(),
		CanClockOut:   record.CanClockOut(),
		CanStartBreak: record.CanStartBreak(),
		CanEndBreak:   record.CanEndBreak(),
	}
	if record != nil {
		r := attendance.ToResponse(*record, now)
		resp.Attendance = &r
	}
	return resp, nil
}

// resolveScope returns the employee id restriction for the requester's
// role: nil means unrestricted within the organization.
func (s *AttendanceServiceImpl) resolveScope(ctx context.Context, req requester) ([]string, error) {
	if user.CanViewAllAttendance(req.role) {
		return nil, nil
	}
	if user.CanViewTeamAttendance(req.role) {
		ids, err := s.userRepo.ListSubordinateIDs(ctx, req.userID)
		if err != nil {
			return nil, err
		}
		return append(ids, req.userID), nil
	}
	return []string{req.userID}, nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	scope, err := s.resolveScope(ctx, req)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if filter.EmployeeID != nil && scope != nil && !contains(scope, *filter.EmployeeID) {
		return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
	}

	records, total, err := s.attendanceRepo.List(ctx, req.organization, filter, scope)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	now := time.Now()
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r, now))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context, employeeID *string, periodDays int) (attendance.StatsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	if periodDays < 1 || periodDays > 366 {
		periodDays = 30
	}

	target := req.userID
	if employeeID != nil && *employeeID != "" && *employeeID != req.userID {
		scope, err := s.resolveScope(ctx, req)
		if err != nil {
			return attendance.StatsResponse{}, err
		}
		if scope != nil && !contains(scope, *employeeID) {
			return attendance.StatsResponse{}, attendance.ErrUnauthorized
		}
		target = *employeeID
	}

	settings, found, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	now := time.Now().In(settings.Location())
	end := dateOf(now)
	start := end.AddDate(0, 0, -(periodDays - 1))

	records, err := s.attendanceRepo.ListRange(ctx, target, start, end)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	stats := attendance.StatsResponse{
		EmployeeID: target,
		PeriodDays: periodDays,
	}

	// Working days in the window, excluding configured weekly offs.
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !settings.IsWeeklyOff(d.Weekday()) {
			stats.TotalDays++
		}
	}

	var workMinutes, breakMinutes int
	for _, r := range records {
		if r.ClockIn == nil {
			continue
		}
		switch {
		case r.Status == company.StatusHalfDay:
			stats.HalfDays++
		default:
			band := s.calculate(settings, found, *r.ClockIn, nil)
			if band.Status == company.StatusPresent {
				stats.PresentDays++
			} else {
				stats.LateDays++
			}
		}
		workMinutes += r.TotalWorkMinutes(now)
		breakMinutes += r.TotalBreakMinutes(now)
	}

	attended := stats.PresentDays + stats.LateDays + stats.HalfDays
	if stats.TotalDays > attended {
		stats.AbsentDays = stats.TotalDays - attended
	}

	stats.TotalWorkHours = round2(float64(workMinutes) / 60)
	stats.TotalBreakHours = round2(float64(breakMinutes) / 60)
	if attended > 0 {
		stats.AvgWorkHours = round2(stats.TotalWorkHours / float64(attended))
	}
	if stats.TotalDays > 0 {
		stats.AttendanceRate = round2(float64(stats.PresentDays) / float64(stats.TotalDays) * 100)
		stats.PunctualityRate = round2(float64(stats.TotalDays-stats.LateDays) / float64(stats.TotalDays) * 100)
	}

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetHistory implements attendance.AttendanceService. Missing days are
// synthesized as Absent (or flagged weekly-off); stored records missing a
// status get one recomputed from their clock-in.
func (s *AttendanceServiceImpl) GetHistory(ctx context.Context, month, year int) (attendance.HistoryResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}
	if month < 1 || month > 12 {
		return attendance.HistoryResponse{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be between 1 and 12",
		}}
	}
	if year < 2000 || year > 2100 {
		return attendance.HistoryResponse{}, validator.ValidationErrors{{
			Field:   "year",
			Message: "year is out of range",
		}}
	}

	settings, found, err := s.settingsService.Resolve(ctx, req.organization)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to resolve settings: %w", err)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListRange(ctx, req.userID, start, end)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	byDate := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byDate[r.Date.Format("2006-01-02")] = r
	}

	now := time.Now().In(settings.Location())
	today := dateOf(now)

	resp := attendance.HistoryResponse{Month: month, Year: year}
	for d := start; !d.After(end) && !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		entry := attendance.HistoryEntry{
			Date:        key,
			IsWeeklyOff: settings.IsWeeklyOff(d.Weekday()),
		}

		if r, ok := byDate[key]; ok {
			entry.Status = r.Status
			entry.Remarks = r.Remarks
			if r.ClockIn != nil {
				clockIn := r.ClockIn.Format(time.RFC3339)
				entry.ClockIn = &clockIn
				if entry.Status == "" {
					entry.Status = s.calculate(settings, found, *r.ClockIn, r.ClockOut).Status
				}
			}
			if r.ClockOut != nil {
				clockOut := r.ClockOut.Format(time.RFC3339)
				entry.ClockOut = &clockOut
			}
			entry.TotalWorkMinutes = r.TotalWorkMinutes(now)
		} else if entry.IsWeeklyOff {
			entry.Status = ""
		} else {
			entry.Status = company.StatusAbsent
		}

		resp.Entries = append(resp.Entries, entry)
	}

	return resp, nil
}

// ListAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAll(ctx context.Context, filter attendance.AllAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !user.CanViewAllAttendance(req.role) && !user.CanViewTeamAttendance(req.role) {
		return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := s.attendanceRepo.ListAll(ctx, req.organization, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	// Managers and team leads only see their direct reports in the
	// organization-wide view.
	if !user.CanViewAllAttendance(req.role) {
		scope, err := s.resolveScope(ctx, req)
		if err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		filtered := records[:0]
		for _, r := range records {
			if contains(scope, r.EmployeeID) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
		total = int64(len(records))
	}

	now := time.Now()
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r, now))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

func strPtr(s string) *string { return &s }
