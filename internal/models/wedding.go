package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Theme string

const (
	ThemeSriLankan   Theme = "sl"
	ThemeSouthIndian Theme = "si"
	ThemeNorthIndian Theme = "ni"
)

type Wedding struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CoupleName1 string    `json:"couple_name_1" gorm:"not null"`
	CoupleName2 string    `json:"couple_name_2" gorm:"not null"`
	Theme       Theme     `json:"theme" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	HostID      string    `json:"-" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Events     []Event     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Households []Household `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (w *Wedding) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Event is one occasion of a wedding. SortOrder is unique per wedding and
// defines the itinerary order.
type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	WeddingID   uuid.UUID `json:"wedding_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_wedding_order"`
	Name        string    `json:"name" gorm:"not null"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	DressCode   string    `json:"dress_code,omitempty"`
	Description string    `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order" gorm:"not null;uniqueIndex:idx_event_wedding_order"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
