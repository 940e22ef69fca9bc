package rsvp

import (
	"testing"

	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection to :memory: would be a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type sharmaFixture struct {
	wedding    models.Wedding
	events     []models.Event
	household  models.Household
	guestA     models.Guest
	guestB     models.Guest
	other      models.Household
	otherGuest models.Guest
	foreign    models.Event
}

// seedSharma builds a wedding with three events and the two-guest Sharma
// household, plus a second household and an event of an unrelated wedding.
func seedSharma(t *testing.T, db *gorm.DB) sharmaFixture {
	t.Helper()

	var f sharmaFixture
	f.wedding = models.Wedding{
		CoupleName1: "Asha",
		CoupleName2: "Rohan",
		Theme:       models.ThemeNorthIndian,
		Slug:        "asha-rohan-" + uuid.NewString()[:8],
		HostID:      "host-1",
	}
	require.NoError(t, db.Create(&f.wedding).Error)

	// inserted out of display order on purpose
	for _, e := range []models.Event{
		{Name: "Reception", Date: "2026-12-13", Time: "19:00", SortOrder: 3},
		{Name: "Mehndi", Date: "2026-12-11", Time: "16:00", SortOrder: 1},
		{Name: "Ceremony", Date: "2026-12-12", Time: "10:00", SortOrder: 2},
	} {
		e.WeddingID = f.wedding.ID
		require.NoError(t, db.Create(&e).Error)
	}
	require.NoError(t, db.Where("wedding_id = ?", f.wedding.ID).Order("sort_order").Find(&f.events).Error)
	require.Len(t, f.events, 3)

	f.household = models.Household{WeddingID: f.wedding.ID, FamilyName: "Sharma", RSVPToken: "sharma-token"}
	require.NoError(t, db.Create(&f.household).Error)
	f.guestA = models.Guest{HouseholdID: f.household.ID, FirstName: "Anil", LastName: "Sharma", DietaryPreference: models.DietVegetarian, Position: 0}
	f.guestB = models.Guest{HouseholdID: f.household.ID, FirstName: "Beena", LastName: "Sharma", DietaryPreference: models.DietJain, Position: 1}
	require.NoError(t, db.Create(&f.guestA).Error)
	require.NoError(t, db.Create(&f.guestB).Error)

	f.other = models.Household{WeddingID: f.wedding.ID, FamilyName: "Perera", RSVPToken: "perera-token"}
	require.NoError(t, db.Create(&f.other).Error)
	f.otherGuest = models.Guest{HouseholdID: f.other.ID, FirstName: "Chamari", LastName: "Perera"}
	require.NoError(t, db.Create(&f.otherGuest).Error)

	otherWedding := models.Wedding{CoupleName1: "X", CoupleName2: "Y", Theme: models.ThemeSriLankan, Slug: "x-y-" + uuid.NewString()[:8], HostID: "host-2"}
	require.NoError(t, db.Create(&otherWedding).Error)
	f.foreign = models.Event{WeddingID: otherWedding.ID, Name: "Poruwa", SortOrder: 1}
	require.NoError(t, db.Create(&f.foreign).Error)

	return f
}

func yes() *bool { v := true; return &v }
func no() *bool { v := false; return &v }

func countInvitations(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.GuestEventInvitation{}).Count(&n).Error)
	return n
}

func reloadHousehold(t *testing.T, db *gorm.DB, id uuid.UUID) models.Household {
	t.Helper()
	var h models.Household
	require.NoError(t, db.First(&h, "id = ?", id).Error)
	return h
}
