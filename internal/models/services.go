package models

import "context"

// AccountService exposes the profile operations of the platform API.
type AccountService interface {
	// FetchProfileStatus returns the authoritative profile snapshot.
	FetchProfileStatus(ctx context.Context) (*ProfileStatus, error)
	// UpdateProfile submits changed contact fields. A declined update is
	// returned as a *RemoteRejection.
	UpdateProfile(ctx context.Context, update *ProfileUpdate) error
}

// WalletService exposes the wallet operations of the platform API.
type WalletService interface {
	// FetchBalance returns the current balance in whole display units.
	FetchBalance(ctx context.Context) (int64, error)
	// CreateCharge initiates a top-up of one of the fixed denominations.
	CreateCharge(ctx context.Context, amount int64) (*ChargeResult, error)
}

// SettingsService exposes the admin settings operations of the platform API.
type SettingsService interface {
	FetchSettings(ctx context.Context) (*SystemSettings, error)
	// UpdateSettings applies a partial change and returns the full
	// authoritative aggregate.
	UpdateSettings(ctx context.Context, update *SettingsUpdate) (*SystemSettings, error)
	// ClearAiCache destructively drops the AI analysis cache.
	ClearAiCache(ctx context.Context) (*ClearCacheResult, error)
}

// SessionService holds the current-session snapshot.
type SessionService interface {
	// Reauthenticate refreshes the session snapshot after a profile change.
	Reauthenticate(ctx context.Context) error
	// IsAdmin reports whether the session holds administrative capability.
	IsAdmin() bool
}

// FeatureFlagService refreshes a process-wide feature flag cache.
type FeatureFlagService interface {
	Reload(ctx context.Context) error
}
