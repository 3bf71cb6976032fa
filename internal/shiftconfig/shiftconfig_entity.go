package shiftconfig

import "time"

// Config adalah baris key-value; value disimpan sebagai JSON text.
type Config struct {
	Key       string `gorm:"type:varchar(50);primaryKey"`
	Value     string `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

const (
	KeyShift1Limit = "shift1_limit"
	KeyShift2Limit = "shift2_limit"
	KeyNightLimit  = "night_limit"
	KeyActiveDays  = "active_days"
)
