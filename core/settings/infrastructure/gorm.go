package infrastructure

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheSettingModel is one persisted override of the cache configuration.
type CacheSettingModel struct {
	Key       string    `gorm:"primaryKey;column:key;size:64"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CacheSettingModel) TableName() string {
	return "cache_settings"
}

type CacheSettingsGormRepository struct {
	db *gorm.DB
}

func NewCacheSettingsGormRepository(db *gorm.DB) *CacheSettingsGormRepository {
	return &CacheSettingsGormRepository{db: db}
}

func (r *CacheSettingsGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&CacheSettingModel{})
}

func (r *CacheSettingsGormRepository) Get(ctx context.Context, key string) (string, error) {
	var m CacheSettingModel
	if err := r.db.WithContext(ctx).First(&m, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(m.Value), nil
}

func (r *CacheSettingsGormRepository) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&CacheSettingModel{Key: key, Value: value}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CacheSettingsGormRepository) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("key IN ?", keys).Delete(&CacheSettingModel{}).Error
}
