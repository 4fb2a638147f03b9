package dao

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketbot/marketbot/sources/psql/models"
)

// Well-known setting keys with their documented defaults.
const (
	KeyScanLimit     = "scanLimit" // messages extracted per conversation
	KeyChatLimit     = "chatLimit" // conversations per bulk run
	KeyAutoResponder = "autoResponderActive"

	DefaultScanLimit = 10
	DefaultChatLimit = 10
)

type SettingDAO struct {
	DB *gorm.DB
}

func NewSettingDAO(db *gorm.DB) *SettingDAO {
	return &SettingDAO{DB: db}
}

// GetString returns the stored value for key, or fallback when the key is
// missing or unreadable.
func (dao *SettingDAO) GetString(ctx context.Context, key, fallback string) string {
	var s models.Setting
	err := dao.DB.WithContext(ctx).First(&s, "key = ?", key).Error
	if err != nil || s.Value == "" {
		return fallback
	}
	return s.Value
}

// GetNumber parses the stored value as an int, falling back on any miss or
// parse failure.
func (dao *SettingDAO) GetNumber(ctx context.Context, key string, fallback int) int {
	raw := dao.GetString(ctx, key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (dao *SettingDAO) GetBool(ctx context.Context, key string, fallback bool) bool {
	raw := dao.GetString(ctx, key, "")
	if raw == "" {
		return fallback
	}
	return raw == "true" || raw == "1"
}

// Set upserts one key/value pair.
func (dao *SettingDAO) Set(ctx context.Context, key, value string) error {
	return dao.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&models.Setting{Key: key, Value: value}).Error
}
