package company

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ems-suite/ems-backend-go/internal/domain/audit"
	"github.com/ems-suite/ems-backend-go/internal/domain/company"
	"github.com/ems-suite/ems-backend-go/internal/domain/user"
	"github.com/ems-suite/ems-backend-go/internal/fixtures"
	"github.com/ems-suite/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-redis/redis/v8"
)

const settingsCacheTTL = 5 * time.Minute

type SettingsServiceImpl struct {
	settingsRepo company.SettingsRepository
	auditRepo    audit.Repository
	cache        *redis.Client // nil disables caching
}

func NewSettingsService(settingsRepo company.SettingsRepository, auditRepo audit.Repository, cache *redis.Client) company.SettingsService {
	return &SettingsServiceImpl{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		cache:        cache,
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

func settingsCacheKey(organization string) string {
	return "settings:" + organization
}

// Get implements company.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (company.SettingsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}

	settings, found, err := s.Resolve(ctx, req.organization)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	return company.ToResponse(settings, !found), nil
}

// Upsert implements company.SettingsService.
func (s *SettingsServiceImpl) Upsert(ctx context.Context, upsertReq company.UpsertSettingsRequest) (company.SettingsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	if !user.HasPermission(req.role, user.PermissionManageSettings) {
		return company.SettingsResponse{}, user.ErrAdminAccessRequired
	}
	if err := upsertReq.Validate(); err != nil {
		return company.SettingsResponse{}, err
	}

	settings := upsertReq.ToSettings(req.organization)
	settings.CreatedBy = &req.userID
	settings.UpdatedBy = &req.userID

	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		return company.SettingsResponse{}, err
	}

	s.invalidate(ctx, req.organization)

	s.auditRepo.Create(ctx, audit.Entry{
		Action:   audit.ActionSettingsUpdate,
		ActorID:  req.userID,
		Entity:   "company_settings",
		EntityID: &saved.ID,
		Success:  true,
	})

	return company.ToResponse(saved, false), nil
}

// TestRules implements company.SettingsService. Nothing is persisted; the
// configured calculator runs against the supplied times.
func (s *SettingsServiceImpl) TestRules(ctx context.Context, testReq company.TestRulesRequest) (company.TestRulesResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return company.TestRulesResponse{}, err
	}
	if err := testReq.Validate(); err != nil {
		return company.TestRulesResponse{}, err
	}

	settings, found, err := s.Resolve(ctx, req.organization)
	if err != nil {
		return company.TestRulesResponse{}, err
	}

	clockIn, err := parseTestTime(testReq.ClockInTime, settings.Location())
	if err != nil {
		return company.TestRulesResponse{}, err
	}

	var clockOut *time.Time
	if testReq.ClockOutTime != nil {
		out, err := parseTestTime(*testReq.ClockOutTime, settings.Location())
		if err != nil {
			return company.TestRulesResponse{}, err
		}
		clockOut = &out
	}

	var result company.StatusResult
	if found {
		result = settings.CalculateAttendanceStatus(clockIn, clockOut)
	} else {
		result = company.CalculateDefaultStatus(clockIn, clockOut)
	}

	return company.TestRulesResponse{
		Status:            result.Status,
		Remarks:           result.Remarks,
		IsWithinWorkHours: settings.IsWithinWorkHours(clockIn.Format("15:04")),
		UsingDefaults:     !found,
	}, nil
}

// parseTestTime accepts an RFC3339 timestamp or a bare "HH:MM" interpreted
// as today in the organization's timezone.
func parseTestTime(value string, loc *time.Location) (time.Time, error) {
	if min, ok := validator.MinuteOfDay(value); ok {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), min/60, min%60, 0, 0, loc), nil
	}
	if t, ok := validator.IsValidDateTime(value); ok {
		return t.In(loc), nil
	}
	return time.Time{}, validator.ValidationErrors{{
		Field:   "time",
		Message: "must be an RFC3339 timestamp or HH:MM time",
	}}
}

// Defaults implements company.SettingsService.
func (s *SettingsServiceImpl) Defaults(ctx context.Context) (company.SettingsResponse, error) {
	req, err := requesterFromContext(ctx)
	if err != nil {
		return company.SettingsResponse{}, err
	}
	return company.ToResponse(fixtures.DefaultSettings(req.organization), true), nil
}

// Resolve implements company.SettingsService. found=false means the
// defaults are being used.
func (s *SettingsServiceImpl) Resolve(ctx context.Context, organization string) (company.Settings, bool, error) {
	if cached, ok := s.fromCache(ctx, organization); ok {
		return cached, true, nil
	}

	settings, err := s.settingsRepo.GetByOrganization(ctx, organization)
	if err != nil {
		if errors.Is(err, company.ErrSettingsNotFound) {
			return fixtures.DefaultSettings(organization), false, nil
		}
		return company.Settings{}, false, err
	}

	s.toCache(ctx, organization, settings)
	return settings, true, nil
}

func (s *SettingsServiceImpl) fromCache(ctx context.Context, organization string) (company.Settings, bool) {
	if s.cache == nil {
		return company.Settings{}, false
	}

	raw, err := s.cache.Get(ctx, settingsCacheKey(organization)).Bytes()
	if err != nil {
		return company.Settings{}, false
	}

	var settings company.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return company.Settings{}, false
	}
	return settings, true
}

func (s *SettingsServiceImpl) toCache(ctx context.Context, organization string, settings company.Settings) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	s.cache.Set(ctx, settingsCacheKey(organization), raw, settingsCacheTTL)
}

func (s *SettingsServiceImpl) invalidate(ctx context.Context, organization string) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, settingsCacheKey(organization))
}
