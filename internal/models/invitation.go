package models

import (
	"time"

	"github.com/google/uuid"
)

// GuestEventInvitation is one guest's answer for one event. A row exists only
// once the guest answered; a missing row means "not yet answered".
type GuestEventInvitation struct {
	GuestID   uuid.UUID `json:"guest_id" gorm:"type:uuid;primaryKey"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;primaryKey;index"`
	Attending bool      `json:"attending" gorm:"not null"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	Event Event `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Wedding{},
		&Event{},
		&Household{},
		&Guest{},
		&GuestEventInvitation{},
	}
}
