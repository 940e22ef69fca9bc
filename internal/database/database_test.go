package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/gdg-garage/wedding-rsvp-api/internal/rsvp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteMigratesSchema(t *testing.T) {
	cfg := &config.Config{
		DatabaseDriver: "sqlite",
		DatabasePath:   filepath.Join(t.TempDir(), "wedding.db"),
	}

	db, err := Connect(cfg)
	require.NoError(t, err)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Household{}, "RSVPToken"))
}

func TestConnect_RejectsUnknownDriver(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseDriver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestConnect_PostgresRequiresURL(t *testing.T) {
	_, err := Connect(&config.Config{DatabaseDriver: "postgres"})
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "wedding.db?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", sqliteDSN("wedding.db"))
	assert.Equal(t, "file::memory:?cache=shared", sqliteDSN("file::memory:?cache=shared"))
}

// Two households answering at the same moment must both commit, and so must
// two members of the same household; the later commit wins per answer.
func TestConnect_SQLiteConcurrentSubmissions(t *testing.T) {
	db, err := Connect(&config.Config{
		DatabaseDriver: "sqlite",
		DatabasePath:   filepath.Join(t.TempDir(), "wedding.db"),
	})
	require.NoError(t, err)

	wedding := models.Wedding{CoupleName1: "Asha", CoupleName2: "Rohan", Theme: models.ThemeNorthIndian, Slug: "asha-rohan-test", HostID: "host-1"}
	require.NoError(t, db.Create(&wedding).Error)
	var events []models.Event
	for i, name := range []string{"Mehndi", "Ceremony", "Reception"} {
		e := models.Event{WeddingID: wedding.ID, Name: name, SortOrder: i + 1}
		require.NoError(t, db.Create(&e).Error)
		events = append(events, e)
	}

	type party struct {
		household models.Household
		guests    []models.Guest
	}
	var parties []party
	for _, family := range []string{"Sharma", "Perera"} {
		p := party{household: models.Household{WeddingID: wedding.ID, FamilyName: family, RSVPToken: family + "-token"}}
		require.NoError(t, db.Create(&p.household).Error)
		for i := 0; i < 2; i++ {
			g := models.Guest{HouseholdID: p.household.ID, FirstName: fmt.Sprintf("%s %d", family, i), Position: i}
			require.NoError(t, db.Create(&g).Error)
			p.guests = append(p.guests, g)
		}
		parties = append(parties, p)
	}

	batchFor := func(p party, attending bool) rsvp.Batch {
		var ds []rsvp.Declaration
		for _, g := range p.guests {
			for _, e := range events {
				ds = append(ds, rsvp.Declaration{GuestID: g.ID, EventID: e.ID, Attending: attending})
			}
		}
		return rsvp.NewBatch(ds...)
	}

	ledger := rsvp.NewLedger()
	coordinator := rsvp.NewCoordinator(db, ledger)
	resolver := rsvp.NewResolver(db, ledger)

	submitAll := func(t *testing.T, jobs []func() error) {
		t.Helper()
		var wg sync.WaitGroup
		errs := make(chan error, len(jobs))
		for _, job := range jobs {
			wg.Add(1)
			go func(job func() error) {
				defer wg.Done()
				errs <- job()
			}(job)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	}

	submit := func(p party, attending bool) func() error {
		return func() error {
			_, err := coordinator.Submit(context.Background(), p.household.ID, batchFor(p, attending))
			return err
		}
	}

	t.Run("DisjointHouseholds", func(t *testing.T) {
		for round := 0; round < 50; round++ {
			submitAll(t, []func() error{
				submit(parties[0], round%2 == 0),
				submit(parties[1], round%2 == 1),
				func() error {
					_, err := resolver.Resolve(context.Background(), "Sharma-token")
					return err
				},
			})
		}
	})

	t.Run("SameHousehold", func(t *testing.T) {
		for round := 0; round < 50; round++ {
			submitAll(t, []func() error{
				submit(parties[0], true),
				submit(parties[0], false),
			})
		}

		var rows []models.GuestEventInvitation
		guestIDs := []uuid.UUID{parties[0].guests[0].ID, parties[0].guests[1].ID}
		require.NoError(t, db.Where("guest_id IN ?", guestIDs).Find(&rows).Error)
		assert.Len(t, rows, 6)
	})
}
