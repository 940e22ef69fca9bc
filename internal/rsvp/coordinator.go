package rsvp

import (
	"context"
	"errors"
	"time"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Receipt describes a committed submission.
type Receipt struct {
	HouseholdID uuid.UUID
	SubmittedAt time.Time
	Recorded    int
}

// Coordinator commits a household's declarations and its submission stamp
// as one transaction. Concurrent submissions for the same household are
// last-writer-wins per (guest, event) pair.
type Coordinator struct {
	db     *gorm.DB
	ledger *Ledger
	now    func() time.Time
}

func NewCoordinator(db *gorm.DB, ledger *Ledger) *Coordinator {
	return &Coordinator{db: db, ledger: ledger, now: time.Now}
}

// Submit validates every declaration against the household, then writes all
// of them and stamps rsvp_submitted_at. Either everything is committed or
// nothing is. Calling it again with the same batch is safe.
func (c *Coordinator) Submit(ctx context.Context, householdID uuid.UUID, batch Batch) (*Receipt, error) {
	declarations := batch.Declarations()

	var receipt Receipt
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var household models.Household
		if err := tx.First(&household, "id = ?", householdID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("load household", err)
		}

		scope, err := LoadScope(ctx, tx, household)
		if err != nil {
			return err
		}
		for _, d := range declarations {
			if err := scope.Check(d); err != nil {
				return err
			}
		}

		for _, d := range declarations {
			if err := c.ledger.Record(ctx, tx, scope, d); err != nil {
				return err
			}
		}

		// The stamp only ever moves forward, even if the clock went back.
		stamp := c.now().UTC()
		if household.RSVPSubmittedAt != nil && household.RSVPSubmittedAt.After(stamp) {
			stamp = household.RSVPSubmittedAt.UTC()
		}
		if err := tx.Model(&models.Household{}).
			Where("id = ?", household.ID).
			Update("rsvp_submitted_at", stamp).Error; err != nil {
			return persistence("stamp submission", err)
		}

		receipt = Receipt{
			HouseholdID: household.ID,
			SubmittedAt: stamp,
			Recorded:    len(declarations),
		}
		return nil
	})
	if err != nil {
		var pErr *PersistenceError
		if KindOf(err) == KindPersistence && !errors.As(err, &pErr) {
			// begin or commit failed outside our own checks
			err = persistence("commit submission", err)
		}
		return nil, err
	}

	return &receipt, nil
}
