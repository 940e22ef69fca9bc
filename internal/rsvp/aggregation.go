package rsvp

import (
	"context"
	"time"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HouseholdState string

const (
	StateUnanswered        HouseholdState = "unanswered"
	StatePartiallyAnswered HouseholdState = "partially_answered"
	StateSubmitted         HouseholdState = "submitted"
)

// DeriveState computes a household's RSVP state from its stamp and the
// number of answers recorded for its guests.
func DeriveState(submittedAt *time.Time, answered int64) HouseholdState {
	switch {
	case submittedAt != nil:
		return StateSubmitted
	case answered > 0:
		return StatePartiallyAnswered
	default:
		return StateUnanswered
	}
}

type EventHeadcount struct {
	EventID   uuid.UUID `json:"event_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Attending int64     `json:"attending"`
	Declined  int64     `json:"declined"`
}

type HouseholdStatus struct {
	HouseholdID uuid.UUID      `json:"household_id"`
	FamilyName  string         `json:"family_name"`
	State       HouseholdState `json:"state"`
	Answered    int64          `json:"answered"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
}

type DietaryCount struct {
	Preference models.DietaryPreference `json:"preference"`
	Guests     int64                    `json:"guests"`
}

type Summary struct {
	Households int64             `json:"households"`
	Guests     int64             `json:"guests"`
	Submitted  int64             `json:"submitted"`
	Events     []EventHeadcount  `json:"events"`
	Statuses   []HouseholdStatus `json:"statuses"`
	Dietary    []DietaryCount    `json:"dietary"`
}

// Aggregator computes host-facing rollups from the current committed state.
// Nothing is cached; an unknown or empty wedding yields zero counts.
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

func (a *Aggregator) EventHeadcounts(ctx context.Context, weddingID uuid.UUID) ([]EventHeadcount, error) {
	return eventHeadcounts(ctx, a.db, weddingID)
}

func (a *Aggregator) HouseholdStatuses(ctx context.Context, weddingID uuid.UUID) ([]HouseholdStatus, error) {
	return householdStatuses(ctx, a.db, weddingID)
}

func (a *Aggregator) DietaryTally(ctx context.Context, weddingID uuid.UUID) ([]DietaryCount, error) {
	return dietaryTally(ctx, a.db, weddingID)
}

// Summary reads all rollups inside one transaction so they agree with each
// other.
func (a *Aggregator) Summary(ctx context.Context, weddingID uuid.UUID) (*Summary, error) {
	var s Summary
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if s.Events, err = eventHeadcounts(ctx, tx, weddingID); err != nil {
			return err
		}
		if s.Statuses, err = householdStatuses(ctx, tx, weddingID); err != nil {
			return err
		}
		if s.Dietary, err = dietaryTally(ctx, tx, weddingID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Households = int64(len(s.Statuses))
	for _, st := range s.Statuses {
		if st.State == StateSubmitted {
			s.Submitted++
		}
	}
	for _, d := range s.Dietary {
		s.Guests += d.Guests
	}
	return &s, nil
}

func eventHeadcounts(ctx context.Context, db *gorm.DB, weddingID uuid.UUID) ([]EventHeadcount, error) {
	var events []models.Event
	if err := db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("sort_order asc").
		Find(&events).Error; err != nil {
		return nil, persistence("load events", err)
	}

	var rows []models.GuestEventInvitation
	weddingEvents := db.Model(&models.Event{}).Select("id").Where("wedding_id = ?", weddingID)
	if err := db.WithContext(ctx).
		Where("event_id IN (?)", weddingEvents).
		Find(&rows).Error; err != nil {
		return nil, persistence("load invitations", err)
	}

	type tally struct{ attending, declined int64 }
	byEvent := make(map[uuid.UUID]*tally, len(events))
	for _, row := range rows {
		t, ok := byEvent[row.EventID]
		if !ok {
			t = &tally{}
			byEvent[row.EventID] = t
		}
		if row.Attending {
			t.attending++
		} else {
			t.declined++
		}
	}

	out := make([]EventHeadcount, 0, len(events))
	for _, e := range events {
		hc := EventHeadcount{EventID: e.ID, Name: e.Name, SortOrder: e.SortOrder}
		if t, ok := byEvent[e.ID]; ok {
			hc.Attending = t.attending
			hc.Declined = t.declined
		}
		out = append(out, hc)
	}
	return out, nil
}

func householdStatuses(ctx context.Context, db *gorm.DB, weddingID uuid.UUID) ([]HouseholdStatus, error) {
	var households []models.Household
	if err := db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("created_at asc, family_name asc, id asc").
		Find(&households).Error; err != nil {
		return nil, persistence("load households", err)
	}

	var counts []struct {
		HouseholdID uuid.UUID
		Answered    int64
	}
	if err := db.WithContext(ctx).
		Model(&models.GuestEventInvitation{}).
		Select("guests.household_id AS household_id, COUNT(*) AS answered").
		Joins("JOIN guests ON guests.id = guest_event_invitations.guest_id").
		Joins("JOIN households ON households.id = guests.household_id").
		Where("households.wedding_id = ?", weddingID).
		Group("guests.household_id").
		Scan(&counts).Error; err != nil {
		return nil, persistence("count answers", err)
	}

	answered := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		answered[c.HouseholdID] = c.Answered
	}

	out := make([]HouseholdStatus, 0, len(households))
	for _, h := range households {
		n := answered[h.ID]
		out = append(out, HouseholdStatus{
			HouseholdID: h.ID,
			FamilyName:  h.FamilyName,
			State:       DeriveState(h.RSVPSubmittedAt, n),
			Answered:    n,
			SubmittedAt: h.RSVPSubmittedAt,
		})
	}
	return out, nil
}

func dietaryTally(ctx context.Context, db *gorm.DB, weddingID uuid.UUID) ([]DietaryCount, error) {
	var counts []struct {
		DietaryPreference models.DietaryPreference
		Total             int64
	}
	if err := db.WithContext(ctx).
		Model(&models.Guest{}).
		Select("guests.dietary_preference AS dietary_preference, COUNT(*) AS total").
		Joins("JOIN households ON households.id = guests.household_id").
		Where("households.wedding_id = ?", weddingID).
		Group("guests.dietary_preference").
		Scan(&counts).Error; err != nil {
		return nil, persistence("count dietary preferences", err)
	}

	byPref := make(map[models.DietaryPreference]int64, len(counts))
	for _, c := range counts {
		byPref[c.DietaryPreference] = c.Total
	}

	out := make([]DietaryCount, 0, len(models.DietaryPreferences))
	for _, p := range models.DietaryPreferences {
		out = append(out, DietaryCount{Preference: p, Guests: byPref[p]})
	}
	return out, nil
}
