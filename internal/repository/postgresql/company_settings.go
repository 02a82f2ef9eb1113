package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) company.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

const settingsColumns = `
	id, organization,
	work_start_time, work_end_time, late_threshold_minutes, grace_time_minutes,
	half_day_threshold_hours, full_day_required_hours, weekly_off_days,
	allow_flexible_timing, flexible_start_earliest, flexible_start_latest,
	auto_clock_out_time, allow_remote_work, require_location_for_clock_in,
	casual_leave_per_year, sick_leave_per_year, earned_leave_per_year,
	max_consecutive_leave_days, leave_application_lead_days,
	notify_on_late_arrival, notify_on_missed_clock_out, daily_report_time,
	timezone, is_active, created_by, updated_by, created_at, updated_at
`

func scanSettings(row pgx.Row) (company.Settings, error) {
	var s company.Settings
	err := row.Scan(
		&s.ID, &s.Organization,
		&s.Attendance.WorkStartTime, &s.Attendance.WorkEndTime,
		&s.Attendance.LateThresholdMinutes, &s.Attendance.GraceTimeMinutes,
		&s.Attendance.HalfDayThresholdHours, &s.Attendance.FullDayRequiredHours,
		&s.Attendance.WeeklyOffDays,
		&s.Attendance.AllowFlexibleTiming,
		&s.Attendance.FlexibleStartRange.Earliest, &s.Attendance.FlexibleStartRange.Latest,
		&s.Attendance.AutoClockOutTime,
		&s.Attendance.AllowRemoteWork, &s.Attendance.RequireLocationForClockIn,
		&s.Leave.CasualLeavePerYear, &s.Leave.SickLeavePerYear, &s.Leave.EarnedLeavePerYear,
		&s.Leave.MaxConsecutiveLeaveDays, &s.Leave.LeaveApplicationLeadDays,
		&s.Notification.NotifyOnLateArrival, &s.Notification.NotifyOnMissedClockOut,
		&s.Notification.DailyReportTime,
		&s.Timezone, &s.IsActive, &s.CreatedBy, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByOrganization implements company.SettingsRepository.
func (r *settingsRepositoryImpl) GetByOrganization(ctx context.Context, organization string) (company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settingsColumns + `
		FROM company_settings
		WHERE organization = $1 AND is_active = TRUE
		LIMIT 1
	`

	s, err := scanSettings(q.QueryRow(ctx, query, organization))
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Settings{}, company.ErrSettingsNotFound
		}
		return company.Settings{}, fmt.Errorf("failed to get company settings: %w", err)
	}
	return s, nil
}

// Upsert implements company.SettingsRepository. The unique partial index on
// (organization) WHERE is_active makes the ON CONFLICT target the single
// active document per organization.
func (r *settingsRepositoryImpl) Upsert(ctx context.Context, s company.Settings) (company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO company_settings (
			organization,
			work_start_time, work_end_time, late_threshold_minutes, grace_time_minutes,
			half_day_threshold_hours, full_day_required_hours, weekly_off_days,
			allow_flexible_timing, flexible_start_earliest, flexible_start_latest,
			auto_clock_out_time, allow_remote_work, require_location_for_clock_in,
			casual_leave_per_year, sick_leave_per_year, earned_leave_per_year,
			max_consecutive_leave_days, leave_application_lead_days,
			notify_on_late_arrival, notify_on_missed_clock_out, daily_report_time,
			timezone, is_active, created_by, updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, TRUE, $24, $24
		)
		ON CONFLICT (organization) WHERE is_active DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			grace_time_minutes = EXCLUDED.grace_time_minutes,
			half_day_threshold_hours = EXCLUDED.half_day_threshold_hours,
			full_day_required_hours = EXCLUDED.full_day_required_hours,
			weekly_off_days = EXCLUDED.weekly_off_days,
			allow_flexible_timing = EXCLUDED.allow_flexible_timing,
			flexible_start_earliest = EXCLUDED.flexible_start_earliest,
			flexible_start_latest = EXCLUDED.flexible_start_latest,
			auto_clock_out_time = EXCLUDED.auto_clock_out_time,
			allow_remote_work = EXCLUDED.allow_remote_work,
			require_location_for_clock_in = EXCLUDED.require_location_for_clock_in,
			casual_leave_per_year = EXCLUDED.casual_leave_per_year,
			sick_leave_per_year = EXCLUDED.sick_leave_per_year,
			earned_leave_per_year = EXCLUDED.earned_leave_per_year,
			max_consecutive_leave_days = EXCLUDED.max_consecutive_leave_days,
			leave_application_lead_days = EXCLUDED.leave_application_lead_days,
			notify_on_late_arrival = EXCLUDED.notify_on_late_arrival,
			notify_on_missed_clock_out = EXCLUDED.notify_on_missed_clock_out,
			daily_report_time = EXCLUDED.daily_report_time,
			timezone = EXCLUDED.timezone,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING ` + settingsColumns + `
	`

	saved, err := scanSettings(q.QueryRow(ctx, query,
		s.Organization,
		s.Attendance.WorkStartTime, s.Attendance.WorkEndTime,
		s.Attendance.LateThresholdMinutes, s.Attendance.GraceTimeMinutes,
		s.Attendance.HalfDayThresholdHours, s.Attendance.FullDayRequiredHours,
		s.Attendance.WeeklyOffDays,
		s.Attendance.AllowFlexibleTiming,
		s.Attendance.FlexibleStartRange.Earliest, s.Attendance.FlexibleStartRange.Latest,
		s.Attendance.AutoClockOutTime,
		s.Attendance.AllowRemoteWork, s.Attendance.RequireLocationForClockIn,
		s.Leave.CasualLeavePerYear, s.Leave.SickLeavePerYear, s.Leave.EarnedLeavePerYear,
		s.Leave.MaxConsecutiveLeaveDays, s.Leave.LeaveApplicationLeadDays,
		s.Notification.NotifyOnLateArrival, s.Notification.NotifyOnMissedClockOut,
		s.Notification.DailyReportTime,
		s.Timezone, s.UpdatedBy,
	))
	if err != nil {
		return company.Settings{}, fmt.Errorf("failed to upsert company settings: %w", err)
	}
	return saved, nil
}

// Delete implements company.SettingsRepository.
func (r *settingsRepositoryImpl) Delete(ctx context.Context, organization string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE company_settings
		SET is_active = FALSE, updated_at = NOW()
		WHERE organization = $1 AND is_active = TRUE
	`

	tag, err := q.Exec(ctx, query, organization)
	if err != nil {
		return fmt.Errorf("failed to delete company settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrSettingsNotFound
	}
	return nil
}

// ListActiveOrganizations returns every organization with an active
// settings document. The cron jobs iterate this to apply per-organization
// auto clock-out and absence marking.
func (r *settingsRepositoryImpl) ListActiveOrganizations(ctx context.Context) ([]company.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + settingsColumns + `
		FROM company_settings
		WHERE is_active = TRUE
		ORDER BY organization
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active settings: %w", err)
	}
	defer rows.Close()

	var all []company.Settings
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settings: %w", err)
		}
		all = append(all, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}

	return all, nil
}
