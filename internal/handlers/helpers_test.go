package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/wedding-rsvp-api/internal/auth"
	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/gdg-garage/wedding-rsvp-api/internal/metrics"
	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/gdg-garage/wedding-rsvp-api/internal/rsvp"
	"github.com/gdg-garage/wedding-rsvp-api/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	cfg     *config.Config
	db      *gorm.DB
	store   *store.Store
	auth    *auth.AuthHandler
	metrics *metrics.Metrics
	rsvp    *RSVPHandler
	host    *HostHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{JWTSecret: "test-secret", MetricsEnabled: true}
	env := &testEnv{
		cfg:     cfg,
		db:      db,
		store:   store.New(db),
		auth:    auth.NewAuthHandler(cfg),
		metrics: metrics.New(),
	}
	ledger := rsvp.NewLedger()
	env.rsvp = NewRSVPHandler(rsvp.NewResolver(db, ledger), rsvp.NewCoordinator(db, ledger), env.store, env.metrics)
	env.host = NewHostHandler(env.auth, env.store, rsvp.NewAggregator(db))
	return env
}

// as returns credentials for hostID the way the dashboard sends them.
func (e *testEnv) as(t *testing.T, hostID string) auth.AuthInput {
	t.Helper()
	token, err := e.auth.GenerateToken(hostID)
	require.NoError(t, err)
	return auth.AuthInput{Cookie: auth.CookieName + "=" + token}
}

type seeded struct {
	wedding   *models.Wedding
	household *models.Household
}

func (e *testEnv) seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()

	wedding, err := e.store.CreateWedding(ctx, "host-1", store.NewWedding{
		CoupleName1: "Nimali",
		CoupleName2: "Kasun",
		Theme:       models.ThemeSriLankan,
		Events: []store.NewEvent{
			{Name: "Poruwa", Date: "2026-11-20", Time: "09:30"},
			{Name: "Reception", Date: "2026-11-20", Time: "18:00"},
		},
	})
	require.NoError(t, err)

	household, err := e.store.CreateHousehold(ctx, wedding.ID, store.NewHousehold{
		FamilyName: "Perera",
		Guests: []store.NewGuest{
			{FirstName: "Sunil", LastName: "Perera"},
			{FirstName: "Kamala", LastName: "Perera", DietaryPreference: models.DietVegetarian},
		},
	})
	require.NoError(t, err)

	return seeded{wedding: wedding, household: household}
}

func scrape(t *testing.T, e *testEnv) string {
	t.Helper()
	rr := httptest.NewRecorder()
	e.metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

func ptr[T any](v T) *T {
	return &v
}
