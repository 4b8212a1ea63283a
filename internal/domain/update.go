package domain

import "time"

// ProcessedUpdate records a Telegram update id that has already been
// dispatched. Telegram re-delivers a webhook update until it is acknowledged,
// so the id is kept until ExpiresAt to answer retries without re-running
// side effects.
type ProcessedUpdate struct {
	UpdateID  int64     `gorm:"column:update_id;primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (ProcessedUpdate) TableName() string { return "processed_updates" }
