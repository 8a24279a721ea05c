package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/im-rahulr/codeshareit/internal/apperror"
	"github.com/im-rahulr/codeshareit/internal/auth"
	"github.com/im-rahulr/codeshareit/internal/model"
	"github.com/im-rahulr/codeshareit/internal/repository"
)

const (
	// Seeded credentials for a fresh install, matching the documented
	// first-run login. Change them immediately via the settings page.
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"

	// MinPasswordLength is the credential-update floor.
	MinPasswordLength = 6

	// Transient store conditions get this many retries at this fixed
	// interval before the operation degrades to the setup-required path.
	// Fixed delay, no backoff — the condition either clears in seconds
	// or the schema genuinely needs provisioning.
	maxStoreRetries = 3
	storeRetryDelay = 2500 * time.Millisecond
)

// SettingsService manages the singleton admin settings row: site status,
// credentials, and login verification.
type SettingsService struct {
	repo       repository.SettingsRepository
	passwords  *auth.PasswordService
	logger     *slog.Logger
	setupSQL   string
	retryDelay time.Duration
}

// NewSettingsService creates a SettingsService. setupSQL is the
// provisioning script surfaced to the operator when the settings table
// is missing — the composition root passes the store's own script so
// this package stays store-agnostic.
func NewSettingsService(repo repository.SettingsRepository, passwords *auth.PasswordService, setupSQL string, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:       repo,
		passwords:  passwords,
		logger:     logger,
		setupSQL:   setupSQL,
		retryDelay: storeRetryDelay,
	}
}

// SetupSQL returns the provisioning script for the degraded-state UI.
func (s *SettingsService) SetupSQL() string {
	return s.setupSQL
}

// SiteStatus is the admin view of the site switch. When SetupRequired is
// set the toggle is unusable until the operator provisions the store;
// Offline is then always false.
type SiteStatus struct {
	Offline       bool   `json:"offline"`
	SetupRequired bool   `json:"setupRequired"`
	SetupSQL      string `json:"setupSql,omitempty"`
}

// Status reads the current site status, absorbing the two recoverable
// store conditions: an unprovisioned table degrades to SetupRequired
// (after busy retries), and a missing row simply means "online".
func (s *SettingsService) Status(ctx context.Context) (SiteStatus, error) {
	var settings *model.Settings
	err := s.withRetry(ctx, "loading settings", func() error {
		var err error
		settings, err = s.repo.Get(ctx)
		return err
	})

	switch {
	case err == nil:
		return SiteStatus{Offline: settings.SiteOffline}, nil
	case errors.Is(err, apperror.ErrNotFound):
		// Table exists but nobody has toggled or saved credentials yet.
		return SiteStatus{Offline: false}, nil
	case errors.Is(err, apperror.ErrSchemaMissing):
		return SiteStatus{SetupRequired: true, SetupSQL: s.setupSQL}, nil
	default:
		return SiteStatus{}, fmt.Errorf("loading site status: %w", err)
	}
}

// Offline reports whether the site switch is off. Callers that gate
// visitor traffic treat any error as "online" — the switch fails open.
func (s *SettingsService) Offline(ctx context.Context) (bool, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading offline flag: %w", err)
	}
	return settings.SiteOffline, nil
}

// SetOffline flips the site switch. The upsert preserves existing
// credentials; on a fresh install with no row yet it seeds the default
// credential pair so the row is complete.
func (s *SettingsService) SetOffline(ctx context.Context, offline bool) (SiteStatus, error) {
	err := s.withRetry(ctx, "updating site status", func() error {
		existing, err := s.repo.Get(ctx)
		switch {
		case err == nil:
			existing.SiteOffline = offline
			return s.repo.Upsert(ctx, existing)
		case errors.Is(err, apperror.ErrNotFound):
			hash, err := s.passwords.Hash(DefaultAdminPassword)
			if err != nil {
				return fmt.Errorf("hashing default password: %w", err)
			}
			return s.repo.Upsert(ctx, &model.Settings{
				Username:     DefaultAdminUsername,
				PasswordHash: hash,
				SiteOffline:  offline,
			})
		default:
			return err
		}
	})

	switch {
	case err == nil:
		s.logger.Info("site status updated", slog.Bool("offline", offline))
		return SiteStatus{Offline: offline}, nil
	case errors.Is(err, apperror.ErrSchemaMissing):
		return SiteStatus{SetupRequired: true, SetupSQL: s.setupSQL}, nil
	default:
		s.logger.Error("failed to update site status", slog.String("error", err.Error()))
		return SiteStatus{}, fmt.Errorf("updating site status: %w", err)
	}
}

// UpdateCredentials validates and saves a new credential pair, keeping
// the current site status. Validation failures leave the stored
// credentials untouched.
func (s *SettingsService) UpdateCredentials(ctx context.Context, username, password, confirm string) (*model.Settings, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("credentials", "username and password are required")
	}
	if password != confirm {
		return nil, apperror.ValidationFailed("confirm", "passwords do not match")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password could not be hashed")
	}

	settings := &model.Settings{
		Username:     username,
		PasswordHash: hash,
	}

	err = s.withRetry(ctx, "updating credentials", func() error {
		existing, err := s.repo.Get(ctx)
		switch {
		case err == nil:
			settings.SiteOffline = existing.SiteOffline
		case errors.Is(err, apperror.ErrNotFound):
			// First save — row gets created with the site online.
		default:
			return err
		}
		return s.repo.Upsert(ctx, settings)
	})
	if err != nil {
		s.logger.Error("failed to update credentials", slog.String("error", err.Error()))
		return nil, fmt.Errorf("updating credentials: %w", err)
	}

	s.logger.Info("admin credentials updated", slog.String("username", username))
	return settings, nil
}

// VerifyLogin checks a credential pair against the stored settings row.
// Wrong username, wrong password and no-row-at-all are indistinguishable
// to the caller: all come back as ErrUnauthorized.
func (s *SettingsService) VerifyLogin(ctx context.Context, username, password string) error {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrSchemaMissing) {
			return apperror.Unauthorized("invalid username or password")
		}
		return fmt.Errorf("loading settings for login: %w", err)
	}

	if settings.Username != username {
		return apperror.Unauthorized("invalid username or password")
	}

	ok, err := s.passwords.Verify(settings.PasswordHash, password)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return apperror.Unauthorized("invalid username or password")
	}

	return nil
}

// withRetry runs op, retrying transient store-busy failures a fixed
// number of times with a fixed delay. If the store is still busy after
// the last retry, the error degrades to ErrSchemaMissing — the admin
// panel's recovery card covers both conditions with the same setup flow.
func (s *SettingsService) withRetry(ctx context.Context, what string, op func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, apperror.ErrStoreBusy) {
			return err
		}
		if attempt >= maxStoreRetries {
			break
		}

		s.logger.Warn("store busy, retrying",
			slog.String("op", what),
			slog.Int("attempt", attempt+1),
			slog.Int("max", maxStoreRetries),
		)

		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.logger.Warn("store still busy after retries, degrading to setup path",
		slog.String("op", what))
	return apperror.SchemaMissing("admin_settings")
}
