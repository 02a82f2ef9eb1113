package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/attendance"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/leave"
	"github.com/ems-suite/ems-backend-go/internal/domain/notification"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
)

// AttendanceJobs contains the scheduled attendance housekeeping jobs:
// auto clock-out, absent marking and missed clock-out alerts.
type AttendanceJobs struct {
	settingsRepo   company.SettingsRepository
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	leaveRepo      leave.Repository
	notificator    notification.Service
}

// NewAttendanceJobs creates attendance cron jobs
func NewAttendanceJobs(
	settingsRepo company.SettingsRepository,
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	leaveRepo leave.Repository,
	notificator notification.Service,
) *AttendanceJobs {
	return &AttendanceJobs{
		settingsRepo:   settingsRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		leaveRepo:      leaveRepo,
		notificator:    notificator,
	}
}

const missedClockOutInterval = 15 * time.Minute

// RegisterJobs registers all attendance-related cron jobs
func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_clock_out", 5*time.Minute, j.AutoClockOut)
	scheduler.AddJob("mark_absent", 1*time.Hour, j.MarkAbsent)
	scheduler.AddJob("missed_clock_out_alerts", missedClockOutInterval, j.MissedClockOutAlerts)
}

// dateOf normalizes a local time to its calendar day, stored as midnight
// UTC so comparisons ignore the wall-clock offset.
func dateOf(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// AutoClockOut closes sessions still open past the organization's
// configured cut-off time. Skipped for organizations without one.
func (j *AttendanceJobs) AutoClockOut(ctx context.Context) error {
	orgs, err := j.settingsRepo.ListActiveOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	for _, settings := range orgs {
		cutoff, ok := validator.MinuteOfDay(settings.Attendance.AutoClockOutTime)
		if !ok {
			continue
		}

		loc := settings.Location()
		now := time.Now().In(loc)
		if now.Hour()*60+now.Minute() < cutoff {
			continue
		}

		sessions, err := j.attendanceRepo.ListOpenSessions(ctx, settings.Organization, dateOf(now))
		if err != nil {
			return fmt.Errorf("failed to list open sessions for %s: %w", settings.Organization, err)
		}

		cutoffTime := time.Date(now.Year(), now.Month(), now.Day(), cutoff/60, cutoff%60, 0, 0, loc)
		for _, record := range sessions {
			if b := record.OpenBreak(); b != nil {
				if err := j.attendanceRepo.CloseBreak(ctx, b.ID, cutoffTime); err != nil {
					return fmt.Errorf("failed to close open break: %w", err)
				}
			}

			result := settings.CalculateAttendanceStatus(record.ClockIn.In(loc), &cutoffTime)
			status := company.StatusClockedOut
			if result.Status == company.StatusHalfDay {
				status = company.StatusHalfDay
			}
			remarks := result.Remarks + " (auto clock-out)"

			record.ClockOut = &cutoffTime
			record.Status = status
			record.Remarks = &remarks
			if err := j.attendanceRepo.Update(ctx, record); err != nil {
				return fmt.Errorf("failed to auto clock out %s: %w", record.EmployeeID, err)
			}
		}
	}

	return nil
}

// MarkAbsent backfills Absent records for the previous working day for
// every active employee who never clocked in and has no leave covering it.
func (j *AttendanceJobs) MarkAbsent(ctx context.Context) error {
	orgs, err := j.settingsRepo.ListActiveOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	for _, settings := range orgs {
		loc := settings.Location()
		yesterday := time.Now().In(loc).AddDate(0, 0, -1)
		if settings.IsWeeklyOff(yesterday.Weekday()) {
			continue
		}
		day := dateOf(yesterday)

		active := true
		page := 1
		for {
			users, _, err := j.userRepo.List(ctx, settings.Organization, user.UserFilter{
				IsActive: &active,
				Page:     page,
				Limit:    100,
			})
			if err != nil {
				return fmt.Errorf("failed to list users for %s: %w", settings.Organization, err)
			}
			if len(users) == 0 {
				break
			}

			for _, u := range users {
				record, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, u.ID, day)
				if err != nil {
					return fmt.Errorf("failed to load attendance: %w", err)
				}
				if record != nil {
					continue
				}

				onLeave, err := j.leaveRepo.HasOverlap(ctx, u.ID, day, day)
				if err != nil {
					return fmt.Errorf("failed to check leave: %w", err)
				}
				if onLeave {
					continue
				}

				remarks := "No clock-in recorded"
				_, err = j.attendanceRepo.Create(ctx, attendance.Attendance{
					EmployeeID:   u.ID,
					Organization: settings.Organization,
					Date:         day,
					Status:       company.StatusAbsent,
					Remarks:      &remarks,
					LocationType: company.LocationOffice,
				})
				if err != nil && err != attendance.ErrAlreadyClockedIn {
					return fmt.Errorf("failed to mark %s absent: %w", u.ID, err)
				}
			}

			page++
		}
	}

	return nil
}

// MissedClockOutAlerts nudges employees who are still clocked in an hour
// past the configured end of the workday. The alert fires once: only when
// the threshold was crossed since the previous run.
func (j *AttendanceJobs) MissedClockOutAlerts(ctx context.Context) error {
	orgs, err := j.settingsRepo.ListActiveOrganizations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	for _, settings := range orgs {
		if !settings.Notification.NotifyOnMissedClockOut {
			continue
		}
		workEnd, ok := validator.MinuteOfDay(settings.Attendance.WorkEndTime)
		if !ok {
			continue
		}

		loc := settings.Location()
		now := time.Now().In(loc)
		threshold := workEnd + 60
		sinceThreshold := now.Hour()*60 + now.Minute() - threshold
		if sinceThreshold < 0 || sinceThreshold >= int(missedClockOutInterval.Minutes()) {
			continue
		}

		sessions, err := j.attendanceRepo.ListOpenSessions(ctx, settings.Organization, dateOf(now))
		if err != nil {
			return fmt.Errorf("failed to list open sessions for %s: %w", settings.Organization, err)
		}

		for _, record := range sessions {
			j.notificator.Notify(notification.CreateNotificationRequest{
				RecipientID: record.EmployeeID,
				Type:        notification.TypeMissedClockOut,
				Title:       "Still clocked in?",
				Message:     "Your workday ended over an hour ago and you have not clocked out yet.",
				Data:        map[string]interface{}{"attendance_id": record.ID},
			})
		}
	}

	return nil
}
