package models

import (
	"time"

	"github.com/google/uuid"
)

// ReplyLog records one delivered reply, for the processed-messages counter
// and the activity feed.
type ReplyLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RunID     string    `json:"run_id" gorm:"type:varchar(64);index"`
	ChatID    string    `json:"chat_id" gorm:"type:varchar(128);index;not null"`
	ChatTitle string    `json:"chat_title" gorm:"type:varchar(255)"`
	Kind      string    `json:"kind" gorm:"type:varchar(16);not null"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}
