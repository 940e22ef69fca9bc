package rsvp

import (
	"context"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is the set of guests and events a household may answer for.
type Scope struct {
	HouseholdID uuid.UUID
	WeddingID   uuid.UUID
	guests      map[uuid.UUID]struct{}
	events      map[uuid.UUID]struct{}
}

func NewScope(householdID, weddingID uuid.UUID, guestIDs, eventIDs []uuid.UUID) Scope {
	s := Scope{
		HouseholdID: householdID,
		WeddingID:   weddingID,
		guests:      make(map[uuid.UUID]struct{}, len(guestIDs)),
		events:      make(map[uuid.UUID]struct{}, len(eventIDs)),
	}
	for _, id := range guestIDs {
		s.guests[id] = struct{}{}
	}
	for _, id := range eventIDs {
		s.events[id] = struct{}{}
	}
	return s
}

// LoadScope reads the household's guest ids and its wedding's event ids.
func LoadScope(ctx context.Context, db *gorm.DB, household models.Household) (Scope, error) {
	var guestIDs []uuid.UUID
	if err := db.WithContext(ctx).Model(&models.Guest{}).
		Where("household_id = ?", household.ID).
		Pluck("id", &guestIDs).Error; err != nil {
		return Scope{}, persistence("load household guests", err)
	}

	var eventIDs []uuid.UUID
	if err := db.WithContext(ctx).Model(&models.Event{}).
		Where("wedding_id = ?", household.WeddingID).
		Pluck("id", &eventIDs).Error; err != nil {
		return Scope{}, persistence("load wedding events", err)
	}

	return NewScope(household.ID, household.WeddingID, guestIDs, eventIDs), nil
}

// Check rejects declarations naming a guest outside the household or an
// event outside the wedding.
func (s Scope) Check(d Declaration) error {
	if _, ok := s.guests[d.GuestID]; !ok {
		return &ValidationError{Reason: "guest does not belong to household", GuestID: d.GuestID, EventID: d.EventID}
	}
	if _, ok := s.events[d.EventID]; !ok {
		return &ValidationError{Reason: "event does not belong to wedding", GuestID: d.GuestID, EventID: d.EventID}
	}
	return nil
}

// Ledger stores attendance keyed by (guest_id, event_id). It takes the
// *gorm.DB per call so it can run inside the caller's transaction.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

var upsertAttendance = clause.OnConflict{
	Columns:   []clause.Column{{Name: "guest_id"}, {Name: "event_id"}},
	DoUpdates: clause.AssignmentColumns([]string{"attending", "updated_at"}),
}

// Record upserts one declaration. Repeating the same call leaves a single
// row holding the latest value.
func (l *Ledger) Record(ctx context.Context, db *gorm.DB, scope Scope, d Declaration) error {
	if err := scope.Check(d); err != nil {
		return err
	}

	row := models.GuestEventInvitation{
		GuestID:   d.GuestID,
		EventID:   d.EventID,
		Attending: d.Attending,
	}
	err := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(upsertAttendance).
		Create(&row).Error
	if err != nil {
		return persistence("record attendance", err)
	}
	return nil
}

// ForHousehold lists the answers recorded for the household's guests.
func (l *Ledger) ForHousehold(ctx context.Context, db *gorm.DB, householdID uuid.UUID) ([]models.GuestEventInvitation, error) {
	var rows []models.GuestEventInvitation
	guests := db.Model(&models.Guest{}).Select("id").Where("household_id = ?", householdID)
	err := db.WithContext(ctx).
		Where("guest_id IN (?)", guests).
		Order("guest_id, event_id").
		Find(&rows).Error
	if err != nil {
		return nil, persistence("load household answers", err)
	}
	return rows, nil
}
