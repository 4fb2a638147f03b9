package dao

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marketbot/marketbot/sources/psql/models"
)

type ReplyLogDAO struct {
	DB *gorm.DB
}

func NewReplyLogDAO(db *gorm.DB) *ReplyLogDAO {
	return &ReplyLogDAO{DB: db}
}

func (dao *ReplyLogDAO) Record(ctx context.Context, runID, chatID, chatTitle, kind, content string) (*models.ReplyLog, error) {
	entry := models.ReplyLog{
		ID:        uuid.New(),
		RunID:     runID,
		ChatID:    chatID,
		ChatTitle: chatTitle,
		Kind:      kind,
		Content:   content,
	}
	if err := dao.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (dao *ReplyLogDAO) Count(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.ReplyLog{}).Count(&count).Error
	return count, err
}

func (dao *ReplyLogDAO) Recent(ctx context.Context, limit int) ([]models.ReplyLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []models.ReplyLog
	err := dao.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
