package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Household is a family unit sharing a single RSVP link. RSVPToken is the
// only guest-facing credential and never changes once issued.
type Household struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	WeddingID       uuid.UUID  `json:"wedding_id" gorm:"type:uuid;not null;index"`
	FamilyName      string     `json:"family_name" gorm:"not null"`
	RSVPToken       string     `json:"-" gorm:"column:rsvp_token;uniqueIndex;not null"`
	RSVPSubmittedAt *time.Time `json:"rsvp_submitted_at,omitempty" gorm:"column:rsvp_submitted_at"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       time.Time  `json:"-"`

	Guests []Guest `json:"guests,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (h *Household) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type DietaryPreference string

const (
	DietStandard   DietaryPreference = "standard"
	DietVegetarian DietaryPreference = "vegetarian"
	DietVegan      DietaryPreference = "vegan"
	DietHalal      DietaryPreference = "halal"
	DietJain       DietaryPreference = "jain"
	DietGlutenFree DietaryPreference = "gluten-free"
)

// DietaryPreferences lists every preference in display order.
var DietaryPreferences = []DietaryPreference{
	DietStandard,
	DietVegetarian,
	DietVegan,
	DietHalal,
	DietJain,
	DietGlutenFree,
}

// Guest is one person of a household. Position keeps guests in the order
// the host entered them.
type Guest struct {
	ID                uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	HouseholdID       uuid.UUID         `json:"household_id" gorm:"type:uuid;not null;index"`
	FirstName         string            `json:"first_name" gorm:"not null"`
	LastName          string            `json:"last_name"`
	DietaryPreference DietaryPreference `json:"dietary_preference" gorm:"not null;default:'standard'"`
	Phone             string            `json:"phone,omitempty"`
	Email             string            `json:"email,omitempty"`
	Position          int               `json:"-" gorm:"not null;default:0"`
	CreatedAt         time.Time         `json:"-"`
	UpdatedAt         time.Time         `json:"-"`

	Invitations []GuestEventInvitation `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (g *Guest) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.DietaryPreference == "" {
		g.DietaryPreference = DietStandard
	}
	return nil
}
