package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewGuest struct {
	FirstName         string                   `json:"first_name" validate:"required,notblank,max=80"`
	LastName          string                   `json:"last_name,omitempty" validate:"max=80"`
	DietaryPreference models.DietaryPreference `json:"dietary_preference,omitempty" validate:"omitempty,oneof=standard vegetarian vegan halal jain gluten-free"`
	Phone             string                   `json:"phone,omitempty" validate:"max=32"`
	Email             string                   `json:"email,omitempty" validate:"omitempty,email"`
}

type NewHousehold struct {
	FamilyName string     `json:"family_name" validate:"required,notblank,max=120"`
	Guests     []NewGuest `json:"guests,omitempty" validate:"dive"`
}

// GuestUpdate changes only the fields that are set.
type GuestUpdate struct {
	FirstName         *string                   `json:"first_name,omitempty" validate:"omitempty,notblank,max=80"`
	LastName          *string                   `json:"last_name,omitempty" validate:"omitempty,max=80"`
	DietaryPreference *models.DietaryPreference `json:"dietary_preference,omitempty" validate:"omitempty,oneof=standard vegetarian vegan halal jain gluten-free"`
	Phone             *string                   `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email             *string                   `json:"email,omitempty" validate:"omitempty,email"`
}

// ImportRow is one parsed line of a guest list import.
type ImportRow struct {
	FirstName         string                   `json:"first_name" validate:"required,notblank,max=80"`
	LastName          string                   `json:"last_name,omitempty" validate:"max=80"`
	HouseholdName     string                   `json:"household_name" validate:"required,notblank,max=120"`
	DietaryPreference models.DietaryPreference `json:"dietary_preference,omitempty" validate:"omitempty,oneof=standard vegetarian vegan halal jain gluten-free"`
}

type ImportResult struct {
	HouseholdsCreated int `json:"households_created"`
	GuestsCreated     int `json:"guests_created"`
}

func guestFrom(g NewGuest, householdID uuid.UUID, position int) models.Guest {
	return models.Guest{
		HouseholdID:       householdID,
		FirstName:         g.FirstName,
		LastName:          g.LastName,
		DietaryPreference: g.DietaryPreference,
		Phone:             g.Phone,
		Email:             g.Email,
		Position:          position,
	}
}

// CreateHousehold issues a fresh RSVP token and stores the household with
// its guests.
func (s *Store) CreateHousehold(ctx context.Context, weddingID uuid.UUID, in NewHousehold) (*models.Household, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}

	household := models.Household{
		WeddingID:  weddingID,
		FamilyName: strings.TrimSpace(in.FamilyName),
		RSVPToken:  token,
	}
	for i, g := range in.Guests {
		household.Guests = append(household.Guests, guestFrom(g, uuid.Nil, i))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := weddingExists(tx, weddingID); err != nil {
			return err
		}
		return tx.Create(&household).Error
	})
	if err != nil {
		return nil, err
	}
	return &household, nil
}

// Households lists the wedding's households with their guests.
func (s *Store) Households(ctx context.Context, weddingID uuid.UUID) ([]models.Household, error) {
	var households []models.Household
	err := s.db.WithContext(ctx).
		Preload("Guests", orderedGuests).
		Where("wedding_id = ?", weddingID).
		Order("created_at asc, family_name asc, id asc").
		Find(&households).Error
	if err != nil {
		return nil, err
	}
	return households, nil
}

func orderedGuests(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, created_at asc, id asc")
}

// AddGuest appends a guest to an existing household.
func (s *Store) AddGuest(ctx context.Context, householdID uuid.UUID, in NewGuest) (*models.Guest, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var guest models.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household models.Household
		if err := tx.First(&household, "id = ?", householdID).Error; err != nil {
			return notFound(err)
		}
		next, err := nextPosition(tx, householdID)
		if err != nil {
			return err
		}
		guest = guestFrom(in, householdID, next)
		return tx.Create(&guest).Error
	})
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

func nextPosition(tx *gorm.DB, householdID uuid.UUID) (int, error) {
	var next int
	err := tx.Model(&models.Guest{}).
		Where("household_id = ?", householdID).
		Select("COALESCE(MAX(position) + 1, 0)").
		Scan(&next).Error
	return next, err
}

func (s *Store) UpdateGuest(ctx context.Context, guestID uuid.UUID, in GuestUpdate) (*models.Guest, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.DietaryPreference != nil {
		updates["dietary_preference"] = *in.DietaryPreference
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}

	var guest models.Guest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&guest, "id = ?", guestID).Error; err != nil {
			return notFound(err)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&guest).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&guest, "id = ?", guestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// RemoveGuest deletes a guest together with the guest's answers.
func (s *Store) RemoveGuest(ctx context.Context, guestID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guest_id = ?", guestID).Delete(&models.GuestEventInvitation{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", guestID).Delete(&models.Guest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GuestWeddingID returns the wedding a guest belongs to.
func (s *Store) GuestWeddingID(ctx context.Context, guestID uuid.UUID) (uuid.UUID, error) {
	var household models.Household
	err := s.db.WithContext(ctx).
		Joins("JOIN guests ON guests.household_id = households.id").
		Where("guests.id = ?", guestID).
		First(&household).Error
	if err != nil {
		return uuid.Nil, notFound(err)
	}
	return household.WeddingID, nil
}

// ImportGuests materialises parsed guest-list rows. Rows naming the same
// household (case-insensitively) share one household; households that
// already exist in the wedding are reused. Nothing is written if any row is
// invalid.
func (s *Store) ImportGuests(ctx context.Context, weddingID uuid.UUID, rows []ImportRow) (*ImportResult, error) {
	for i, row := range rows {
		if err := s.check(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	var result ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := weddingExists(tx, weddingID); err != nil {
			return err
		}

		var existing []models.Household
		if err := tx.Where("wedding_id = ?", weddingID).Find(&existing).Error; err != nil {
			return err
		}
		byName := make(map[string]uuid.UUID, len(existing))
		for _, h := range existing {
			byName[householdKey(h.FamilyName)] = h.ID
		}

		positions := make(map[uuid.UUID]int)
		for _, row := range rows {
			key := householdKey(row.HouseholdName)
			householdID, ok := byName[key]
			if !ok {
				token, err := s.newToken()
				if err != nil {
					return err
				}
				household := models.Household{
					WeddingID:  weddingID,
					FamilyName: strings.TrimSpace(row.HouseholdName),
					RSVPToken:  token,
				}
				if err := tx.Create(&household).Error; err != nil {
					return err
				}
				householdID = household.ID
				byName[key] = householdID
				positions[householdID] = 0
				result.HouseholdsCreated++
			}

			position, ok := positions[householdID]
			if !ok {
				next, err := nextPosition(tx, householdID)
				if err != nil {
					return err
				}
				position = next
			}

			guest := guestFrom(NewGuest{
				FirstName:         row.FirstName,
				LastName:          row.LastName,
				DietaryPreference: row.DietaryPreference,
			}, householdID, position)
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
			positions[householdID] = position + 1
			result.GuestsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func householdKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HouseholdWeddingID returns the wedding a household belongs to.
func (s *Store) HouseholdWeddingID(ctx context.Context, householdID uuid.UUID) (uuid.UUID, error) {
	var household models.Household
	if err := s.db.WithContext(ctx).Select("wedding_id").First(&household, "id = ?", householdID).Error; err != nil {
		return uuid.Nil, notFound(err)
	}
	return household.WeddingID, nil
}
