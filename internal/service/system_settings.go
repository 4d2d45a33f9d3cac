package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/NabirasulA/Galaxy/internal/models"
	"github.com/NabirasulA/Galaxy/internal/repository"
)

const (
	FeatureDailySummaryCron = "feature.daily_summary_cron"
	FeatureAIChat           = "feature.ai_chat"
	FeatureMarketCache      = "feature.market_cache"
	FeatureEvents           = "feature.events"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureDailySummaryCron: true,
		FeatureAIChat:           true,
		FeatureMarketCache:      true,
		FeatureEvents:           true,
	}
}

type FeatureSwitch struct {
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	Default   bool      `json:"default"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

type SystemSettingsService struct {
	Repo repository.SettingsRepository
}

// EnsureDefaultSwitches seeds missing switches. Stored values are left alone.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := s.SetEnabled(ctx, key, enabled); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: "feature switch",
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}

// IsKnownSwitch reports whether name is one of the default feature switches.
func IsKnownSwitch(name string) bool {
	_, ok := DefaultFeatureSwitches()[strings.TrimSpace(name)]
	return ok
}

// Switch returns the effective state of one known switch.
func (s *SystemSettingsService) Switch(ctx context.Context, name string) (FeatureSwitch, error) {
	name = strings.TrimSpace(name)
	def := DefaultFeatureSwitches()[name]
	out := FeatureSwitch{Name: name, Enabled: def, Default: def}
	if s == nil || s.Repo == nil {
		return out, nil
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, name)
	if err != nil {
		return out, err
	}
	if item == nil {
		return out, nil
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err == nil {
		out.Enabled = enabled
	}
	out.UpdatedAt = item.UpdatedAt
	return out, nil
}

// Switches lists every known switch, sorted by name.
func (s *SystemSettingsService) Switches(ctx context.Context) ([]FeatureSwitch, error) {
	names := make([]string, 0, len(DefaultFeatureSwitches()))
	for name := range DefaultFeatureSwitches() {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]FeatureSwitch, 0, len(names))
	for _, name := range names {
		sw, err := s.Switch(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, nil
}
