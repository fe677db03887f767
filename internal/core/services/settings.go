package services

import (
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHTTPTimeout    = "http.timeout"
	keyMaxPages       = "pagination.max_pages"
	keyHistoryEnabled = "history.enabled"
	keyBaseURLSuffix  = ".base_url"
	keyTokenURLSuffix = ".token_url"
	keyUploadSuffix   = ".upload_url"
)

// SettingsService reads application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() domain.Settings {
	defaults := domain.DefaultSettings()
	return domain.Settings{
		HTTPTimeout:    s.getDuration(keyHTTPTimeout, defaults.HTTPTimeout),
		MaxPages:       s.getInt(keyMaxPages, defaults.MaxPages),
		HistoryEnabled: s.getBool(keyHistoryEnabled, defaults.HistoryEnabled),
	}
}

// BaseURL returns the API root override of a vendor.
func (s *SettingsService) BaseURL(vendor domain.VendorID) string {
	return strings.TrimSpace(s.configStore.GetString(string(vendor) + keyBaseURLSuffix))
}

// TokenURL returns the token endpoint override of a vendor.
func (s *SettingsService) TokenURL(vendor domain.VendorID) string {
	return strings.TrimSpace(s.configStore.GetString(string(vendor) + keyTokenURLSuffix))
}

// UploadURL returns the media upload endpoint override of a vendor.
func (s *SettingsService) UploadURL(vendor domain.VendorID) string {
	return strings.TrimSpace(s.configStore.GetString(string(vendor) + keyUploadSuffix))
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := s.configStore.GetString(key)
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.Warn("invalid %s %q, using %s", key, raw, defaultVal)
		return defaultVal
	}
	return d
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	v := s.configStore.GetInt(key)
	if v < 1 {
		logger.Warn("invalid %s %d, using %d", key, v, defaultVal)
		return defaultVal
	}
	return v
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	b, ok := val.(bool)
	if !ok {
		return defaultVal
	}
	return b
}
