package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_leaves_user_date_shift;index:idx_leaves_user_created"`

	Shift  string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_leaves_user_date_shift;index:idx_leaves_shift_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:idx_leaves_user_date_shift;index:idx_leaves_shift_date"`
	Reason string    `gorm:"type:text"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	DecidedBy *uuid.UUID `gorm:"type:uuid"`
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
