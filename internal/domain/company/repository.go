package company

import (
	"context"
)

// SettingsRepository defines data access for settings documents.
type SettingsRepository interface {
	// GetByOrganization returns the active settings document for an
	// organization, or ErrSettingsNotFound.
	GetByOrganization(ctx context.Context, organization string) (Settings, error)

	// Upsert replaces the active settings document for the organization,
	// creating one when none exists.
	Upsert(ctx context.Context, s Settings) (Settings, error)

	Delete(ctx context.Context, organization string) error

	// ListActiveOrganizations returns every active settings document. The
	// scheduled jobs iterate this to apply per-organization policy.
	ListActiveOrganizations(ctx context.Context) ([]Settings, error)
}

// SettingsService defines business logic for the rule-set endpoints.
type SettingsService interface {
	// Get returns the organization's settings, falling back to the default
	// rule set (isDefault=true) when no document exists.
	Get(ctx context.Context) (SettingsResponse, error)

	// Upsert validates and stores the organization's settings (admin only).
	Upsert(ctx context.Context, req UpsertSettingsRequest) (SettingsResponse, error)

	// TestRules evaluates the calculator against a hypothetical clock-in/out
	// pair without persisting anything.
	TestRules(ctx context.Context, req TestRulesRequest) (TestRulesResponse, error)

	// Defaults returns the seeded default rule set for a new organization.
	Defaults(ctx context.Context) (SettingsResponse, error)

	// Resolve loads the settings used by the attendance path; callers get
	// the defaults (and ok=false) when no document exists.
	Resolve(ctx context.Context, organization string) (Settings, bool, error)
}
