package rsvp

import (
	"context"
	"errors"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"gorm.io/gorm"
)

// Resolution is everything a household link gives access to.
type Resolution struct {
	Household models.Household
	Wedding   models.Wedding
	Guests    []models.Guest
	Events    []models.Event
	Answers   []models.GuestEventInvitation
}

type Resolver struct {
	db     *gorm.DB
	ledger *Ledger
}

func NewResolver(db *gorm.DB, ledger *Ledger) *Resolver {
	return &Resolver{db: db, ledger: ledger}
}

// Resolve maps an RSVP token to its household. It only reads, and returns
// ErrNotFound for any token that does not match exactly one household.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Resolution, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var res Resolution
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("rsvp_token = ?", token).First(&res.Household).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("load household", err)
		}

		if err := tx.First(&res.Wedding, "id = ?", res.Household.WeddingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("load wedding", err)
		}

		if err := tx.Where("household_id = ?", res.Household.ID).
			Order("position asc, created_at asc, id asc").
			Find(&res.Guests).Error; err != nil {
			return persistence("load guests", err)
		}

		if err := tx.Where("wedding_id = ?", res.Household.WeddingID).
			Order("sort_order asc").
			Find(&res.Events).Error; err != nil {
			return persistence("load events", err)
		}

		answers, err := r.ledger.ForHousehold(ctx, tx, res.Household.ID)
		if err != nil {
			return err
		}
		res.Answers = answers
		return nil
	})
	if err != nil {
		var pErr *PersistenceError
		if KindOf(err) == KindPersistence && !errors.As(err, &pErr) {
			err = persistence("resolve token", err)
		}
		return nil, err
	}

	return &res, nil
}
