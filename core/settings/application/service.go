package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	"github.com/AzielCF/az-content/core/config"
	"github.com/AzielCF/az-content/core/settings/domain"
	"github.com/AzielCF/az-content/core/settings/infrastructure"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SettingsService struct {
	repo domain.ISettingsRepository
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return NewSettingsServiceWithRepo(infrastructure.NewCacheSettingsGormRepository(db))
}

func NewSettingsServiceWithRepo(repo domain.ISettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// CacheSettings are the persisted overrides. Nil fields were never saved.
type CacheSettings struct {
	MaxSize        *int    `json:"max_size,omitempty"`
	EvictionPolicy *string `json:"eviction_policy,omitempty"`
	EnableStats    *bool   `json:"enable_stats,omitempty"`
	EnableWarming  *bool   `json:"enable_warming,omitempty"`
}

func parseBool(val string) bool {
	vLower := strings.ToLower(val)
	return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
}

func (s *SettingsService) GetCacheSettings(ctx context.Context) (*CacheSettings, error) {
	if err := s.repo.InitSchema(ctx); err != nil {
		return nil, err
	}

	cs := &CacheSettings{}

	if val, _ := s.repo.Get(ctx, domain.KeyCacheMaxSize); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			cs.MaxSize = &n
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyCacheEvictionPolicy); val != "" {
		if p, ok := cacheDomain.ParseEvictionPolicy(val); ok {
			policy := string(p)
			cs.EvictionPolicy = &policy
		}
	}
	if val, _ := s.repo.Get(ctx, domain.KeyCacheEnableStats); val != "" {
		on := parseBool(val)
		cs.EnableStats = &on
	}
	if val, _ := s.repo.Get(ctx, domain.KeyCacheEnableWarming); val != "" {
		on := parseBool(val)
		cs.EnableWarming = &on
	}
	return cs, nil
}

// ApplyCacheSettings overrides cfg with whatever has been persisted.
func (s *SettingsService) ApplyCacheSettings(ctx context.Context, cfg *config.CacheConfig) error {
	cs, err := s.GetCacheSettings(ctx)
	if err != nil {
		return err
	}
	if cs.MaxSize != nil {
		cfg.MaxSize = *cs.MaxSize
	}
	if cs.EvictionPolicy != nil {
		cfg.EvictionPolicy = *cs.EvictionPolicy
	}
	if cs.EnableStats != nil {
		cfg.EnableStats = *cs.EnableStats
	}
	if cs.EnableWarming != nil {
		cfg.EnableWarming = *cs.EnableWarming
	}
	logrus.Debugf("[SETTINGS] Cache settings applied: max_size=%d policy=%s stats=%v warming=%v",
		cfg.MaxSize, cfg.EvictionPolicy, cfg.EnableStats, cfg.EnableWarming)
	return nil
}

// SaveCacheSettings persists the non-nil fields of cs. Nothing is written
// unless every field is valid.
func (s *SettingsService) SaveCacheSettings(ctx context.Context, cs CacheSettings) error {
	values := make(map[string]string, len(domain.CacheKeys))
	if cs.MaxSize != nil {
		if *cs.MaxSize <= 0 {
			return fmt.Errorf("max_size must be positive, got %d", *cs.MaxSize)
		}
		values[domain.KeyCacheMaxSize] = strconv.Itoa(*cs.MaxSize)
	}
	if cs.EvictionPolicy != nil {
		p, ok := cacheDomain.ParseEvictionPolicy(*cs.EvictionPolicy)
		if !ok {
			return fmt.Errorf("unknown eviction policy %q", *cs.EvictionPolicy)
		}
		values[domain.KeyCacheEvictionPolicy] = string(p)
	}
	if cs.EnableStats != nil {
		values[domain.KeyCacheEnableStats] = boolString(*cs.EnableStats)
	}
	if cs.EnableWarming != nil {
		values[domain.KeyCacheEnableWarming] = boolString(*cs.EnableWarming)
	}

	if err := s.repo.InitSchema(ctx); err != nil {
		return err
	}
	if err := s.repo.SetMany(ctx, values); err != nil {
		return err
	}
	logrus.Infof("[SETTINGS] Saved %d cache setting(s)", len(values))
	return nil
}

// ResetCacheSettings removes every persisted override.
func (s *SettingsService) ResetCacheSettings(ctx context.Context) error {
	if err := s.repo.InitSchema(ctx); err != nil {
		return err
	}
	return s.repo.DeleteMany(ctx, domain.CacheKeys...)
}

func boolString(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
