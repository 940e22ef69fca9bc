package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type NewEvent struct {
	Name        string `json:"name" validate:"required,notblank,max=120"`
	Date        string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time        string `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	Venue       string `json:"venue,omitempty" validate:"max=200"`
	DressCode   string `json:"dress_code,omitempty" validate:"max=120"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type NewWedding struct {
	CoupleName1 string       `json:"couple_name_1" validate:"required,notblank,max=80"`
	CoupleName2 string       `json:"couple_name_2" validate:"required,notblank,max=80"`
	Theme       models.Theme `json:"theme" validate:"required,oneof=sl si ni"`
	Events      []NewEvent   `json:"events,omitempty" validate:"dive"`
}

// CreateWedding stores the wedding and its itinerary, numbering events in
// the order given.
func (s *Store) CreateWedding(ctx context.Context, hostID string, in NewWedding) (*models.Wedding, error) {
	if hostID == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalid)
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	weddingSlug, err := makeSlug(in.CoupleName1, in.CoupleName2)
	if err != nil {
		return nil, err
	}

	wedding := models.Wedding{
		CoupleName1: in.CoupleName1,
		CoupleName2: in.CoupleName2,
		Theme:       in.Theme,
		Slug:        weddingSlug,
		HostID:      hostID,
	}
	for i, e := range in.Events {
		wedding.Events = append(wedding.Events, eventFrom(e, i+1))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&wedding).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	return &wedding, nil
}

func eventFrom(e NewEvent, sortOrder int) models.Event {
	return models.Event{
		Name:        e.Name,
		Date:        e.Date,
		Time:        e.Time,
		Venue:       e.Venue,
		DressCode:   e.DressCode,
		Description: e.Description,
		SortOrder:   sortOrder,
	}
}

func makeSlug(name1, name2 string) (string, error) {
	base := slug.Make(name1 + " " + name2)
	if base == "" {
		base = "wedding"
	}
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return base + "-" + hex.EncodeToString(suffix), nil
}

// WeddingForHost loads a wedding with its ordered events. Weddings owned by
// someone else are reported as not found.
func (s *Store) WeddingForHost(ctx context.Context, hostID string, weddingID uuid.UUID) (*models.Wedding, error) {
	var wedding models.Wedding
	err := s.db.WithContext(ctx).
		Preload("Events", orderedEvents).
		Where("id = ? AND host_id = ?", weddingID, hostID).
		First(&wedding).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &wedding, nil
}

func (s *Store) WeddingsForHost(ctx context.Context, hostID string) ([]models.Wedding, error) {
	var weddings []models.Wedding
	err := s.db.WithContext(ctx).
		Where("host_id = ?", hostID).
		Order("created_at desc").
		Find(&weddings).Error
	if err != nil {
		return nil, err
	}
	return weddings, nil
}

// WeddingBySlug backs the public invitation page.
func (s *Store) WeddingBySlug(ctx context.Context, weddingSlug string) (*models.Wedding, error) {
	var wedding models.Wedding
	err := s.db.WithContext(ctx).
		Preload("Events", orderedEvents).
		Where("slug = ?", weddingSlug).
		First(&wedding).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &wedding, nil
}

func orderedEvents(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order asc")
}

// AddEvent appends an event after the current last one.
func (s *Store) AddEvent(ctx context.Context, weddingID uuid.UUID, in NewEvent) (*models.Event, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var event models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := weddingExists(tx, weddingID); err != nil {
			return err
		}

		var last int
		if err := tx.Model(&models.Event{}).
			Where("wedding_id = ?", weddingID).
			Select("COALESCE(MAX(sort_order), 0)").
			Scan(&last).Error; err != nil {
			return err
		}

		event = eventFrom(in, last+1)
		event.WeddingID = weddingID
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ReorderEvents renumbers the wedding's events 1..n following ids, which
// must name every event exactly once.
func (s *Store) ReorderEvents(ctx context.Context, weddingID uuid.UUID, ids []uuid.UUID) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := weddingExists(tx, weddingID); err != nil {
			return err
		}

		var current []uuid.UUID
		if err := tx.Model(&models.Event{}).Where("wedding_id = ?", weddingID).Pluck("id", &current).Error; err != nil {
			return err
		}
		if err := isPermutation(current, ids); err != nil {
			return err
		}

		// Park everything on negative positions first so the unique
		// (wedding_id, sort_order) index holds after every statement.
		for i, id := range ids {
			if err := tx.Model(&models.Event{}).Where("id = ?", id).Update("sort_order", -(i + 1)).Error; err != nil {
				return err
			}
		}
		for i, id := range ids {
			if err := tx.Model(&models.Event{}).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}

		return tx.Where("wedding_id = ?", weddingID).Order("sort_order asc").Find(&events).Error
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func isPermutation(current, ids []uuid.UUID) error {
	if len(current) != len(ids) {
		return fmt.Errorf("%w: expected %d event ids, got %d", ErrInvalid, len(current), len(ids))
	}
	known := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		known[id] = false
	}
	for _, id := range ids {
		seen, ok := known[id]
		if !ok {
			return fmt.Errorf("%w: event %s is not part of this wedding", ErrInvalid, id)
		}
		if seen {
			return fmt.Errorf("%w: event %s listed twice", ErrInvalid, id)
		}
		known[id] = true
	}
	return nil
}

// DeleteWedding removes the wedding and everything under it.
func (s *Store) DeleteWedding(ctx context.Context, weddingID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := weddingExists(tx, weddingID); err != nil {
			return err
		}

		households := func() *gorm.DB {
			return tx.Model(&models.Household{}).Select("id").Where("wedding_id = ?", weddingID)
		}
		guests := func() *gorm.DB {
			return tx.Model(&models.Guest{}).Select("id").Where("household_id IN (?)", households())
		}
		events := func() *gorm.DB {
			return tx.Model(&models.Event{}).Select("id").Where("wedding_id = ?", weddingID)
		}

		if err := tx.Where("guest_id IN (?) OR event_id IN (?)", guests(), events()).
			Delete(&models.GuestEventInvitation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("household_id IN (?)", households()).Delete(&models.Guest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wedding_id = ?", weddingID).Delete(&models.Household{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wedding_id = ?", weddingID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", weddingID).Delete(&models.Wedding{}).Error
	})
}

func weddingExists(tx *gorm.DB, weddingID uuid.UUID) error {
	var n int64
	if err := tx.Model(&models.Wedding{}).Where("id = ?", weddingID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
