package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/wedding-rsvp-api/internal/auth"
	"github.com/gdg-garage/wedding-rsvp-api/internal/config"
	"github.com/gdg-garage/wedding-rsvp-api/internal/logger"
	"github.com/gdg-garage/wedding-rsvp-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var hostSecurity = []map[string][]string{{"cookieAuth": {}}, {"bearerAuth": {}}}

func hostOnly(o *huma.Operation) {
	o.Security = hostSecurity
	o.Tags = []string{"host"}
}

func guestOp(o *huma.Operation) {
	o.Tags = []string{"guest"}
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, authHandler *auth.AuthHandler, rsvpHandler *RSVPHandler, hostHandler *HostHandler, m *metrics.Metrics) huma.API {
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(authHandler.SessionMiddleware)

	// Initialize Huma API
	humaConfig := huma.DefaultConfig("Wedding RSVP API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(r, humaConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if cfg.MetricsEnabled && m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// Guest routes
	huma.Get(api, "/rsvp/{token}", rsvpHandler.HandleResolve, guestOp)
	huma.Post(api, "/rsvp/{token}", rsvpHandler.HandleSubmit, guestOp)
	huma.Get(api, "/w/{slug}", rsvpHandler.HandleWeddingPage, guestOp)

	// Host routes
	huma.Get(api, "/weddings", hostHandler.HandleListWeddings, hostOnly)
	huma.Post(api, "/weddings", hostHandler.HandleCreateWedding, hostOnly)
	huma.Get(api, "/weddings/{id}", hostHandler.HandleGetWedding, hostOnly)
	huma.Delete(api, "/weddings/{id}", hostHandler.HandleDeleteWedding, hostOnly)
	huma.Post(api, "/weddings/{id}/events", hostHandler.HandleAddEvent, hostOnly)
	huma.Put(api, "/weddings/{id}/events/order", hostHandler.HandleReorderEvents, hostOnly)
	huma.Get(api, "/weddings/{id}/households", hostHandler.HandleListHouseholds, hostOnly)
	huma.Post(api, "/weddings/{id}/households", hostHandler.HandleCreateHousehold, hostOnly)
	huma.Post(api, "/weddings/{id}/guests/import", hostHandler.HandleImportGuests, hostOnly)
	huma.Get(api, "/weddings/{id}/summary", hostHandler.HandleSummary, hostOnly)
	huma.Post(api, "/households/{id}/guests", hostHandler.HandleAddGuest, hostOnly)
	huma.Patch(api, "/guests/{id}", hostHandler.HandleUpdateGuest, hostOnly)
	huma.Delete(api, "/guests/{id}", hostHandler.HandleRemoveGuest, hostOnly)

	return api
}
