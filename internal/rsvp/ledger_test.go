package rsvp

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecord_Upserts(t *testing.T) {
	db := newTestDB(t)
	f := seedSharma(t, db)
	ctx := context.Background()

	scope, err := LoadScope(ctx, db, f.household)
	require.NoError(t, err)

	ledger := NewLedger()
	d := Declaration{GuestID: f.guestA.ID, EventID: f.events[0].ID, Attending: true}
	for i := 0; i < 3; i++ {
		require.NoError(t, ledger.Record(ctx, db, scope, d))
	}
	assert.EqualValues(t, 1, countInvitations(t, db))

	d.Attending = false
	require.NoError(t, ledger.Record(ctx, db, scope, d))

	rows, err := ledger.ForHousehold(ctx, db, f.household.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Attending)
}

func TestLedgerRecord_RejectsOutOfScope(t *testing.T) {
	db := newTestDB(t)
	f := seedSharma(t, db)
	ctx := context.Background()

	scope, err := LoadScope(ctx, db, f.household)
	require.NoError(t, err)

	ledger := NewLedger()
	for name, d := range map[string]Declaration{
		"OtherHouseholdGuest": {GuestID: f.otherGuest.ID, EventID: f.events[0].ID, Attending: true},
		"ForeignEvent":        {GuestID: f.guestA.ID, EventID: f.foreign.ID, Attending: true},
		"UnknownGuest":        {GuestID: uuid.New(), EventID: f.events[0].ID, Attending: false},
		"ZeroIDs":             {},
	} {
		t.Run(name, func(t *testing.T) {
			err := ledger.Record(ctx, db, scope, d)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
	assert.Zero(t, countInvitations(t, db))
}

func TestLoadScope(t *testing.T) {
	db := newTestDB(t)
	f := seedSharma(t, db)

	scope, err := LoadScope(context.Background(), db, f.household)
	require.NoError(t, err)

	assert.Equal(t, f.household.ID, scope.HouseholdID)
	assert.Equal(t, f.wedding.ID, scope.WeddingID)
	assert.Len(t, scope.guests, 2)
	assert.Len(t, scope.events, 3)

	assert.NoError(t, scope.Check(Declaration{GuestID: f.guestB.ID, EventID: f.events[2].ID}))
	assert.Error(t, scope.Check(Declaration{GuestID: uuid.Nil, EventID: f.events[2].ID}))
}
