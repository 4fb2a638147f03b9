package models

import "time"

// Setting is one key/value pair of runtime configuration (webhook URL,
// scan limits, auto-responder toggle). Missing keys fall back to defaults
// at the DAO level.
type Setting struct {
	Key       string    `json:"key" gorm:"type:varchar(100);primaryKey"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}
