package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/wedding-rsvp-api/internal/auth"
	"github.com/gdg-garage/wedding-rsvp-api/internal/logger"
	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/gdg-garage/wedding-rsvp-api/internal/rsvp"
	"github.com/gdg-garage/wedding-rsvp-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HostHandler serves the dashboard routes. Every operation authorizes the
// caller and checks that the wedding it touches belongs to them.
type HostHandler struct {
	authHandler *auth.AuthHandler
	store       *store.Store
	aggregator  *rsvp.Aggregator
}

func NewHostHandler(authHandler *auth.AuthHandler, s *store.Store, aggregator *rsvp.Aggregator) *HostHandler {
	return &HostHandler{authHandler: authHandler, store: s, aggregator: aggregator}
}

// WeddingView is a wedding with its itinerary in display order.
type WeddingView struct {
	ID          uuid.UUID      `json:"id"`
	CoupleName1 string         `json:"couple_name_1"`
	CoupleName2 string         `json:"couple_name_2"`
	Theme       models.Theme   `json:"theme"`
	Slug        string         `json:"slug"`
	CreatedAt   time.Time      `json:"created_at"`
	Events      []models.Event `json:"events"`
}

func weddingView(w *models.Wedding) WeddingView {
	events := w.Events
	if events == nil {
		events = []models.Event{}
	}
	return WeddingView{
		ID:          w.ID,
		CoupleName1: w.CoupleName1,
		CoupleName2: w.CoupleName2,
		Theme:       w.Theme,
		Slug:        w.Slug,
		CreatedAt:   w.CreatedAt,
		Events:      events,
	}
}

type WeddingOutput struct {
	Body WeddingView
}

type WeddingInput struct {
	auth.AuthInput
	ID string `path:"id" format:"uuid" doc:"Wedding ID"`
}

// ownedWedding authorizes the request and loads the wedding if the caller
// owns it. Foreign weddings look exactly like missing ones.
func (h *HostHandler) ownedWedding(ctx context.Context, in auth.AuthInput, id string) (*models.Wedding, error) {
	hostID, err := h.authHandler.Authorize(ctx, in)
	if err != nil {
		return nil, err
	}
	weddingID, err := uuid.Parse(id)
	if err != nil {
		return nil, huma.Error404NotFound("Wedding not found")
	}
	wedding, err := h.store.WeddingForHost(ctx, hostID, weddingID)
	if err != nil {
		return nil, hostError(ctx, "load wedding", err)
	}
	return wedding, nil
}

type ListWeddingsInput struct {
	auth.AuthInput
}

type ListWeddingsOutput struct {
	Body []WeddingView
}

func (h *HostHandler) HandleListWeddings(ctx context.Context, input *ListWeddingsInput) (*ListWeddingsOutput, error) {
	hostID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	weddings, err := h.store.WeddingsForHost(ctx, hostID)
	if err != nil {
		return nil, hostError(ctx, "list weddings", err)
	}
	out := &ListWeddingsOutput{Body: make([]WeddingView, 0, len(weddings))}
	for i := range weddings {
		out.Body = append(out.Body, weddingView(&weddings[i]))
	}
	return out, nil
}

type CreateWeddingInput struct {
	auth.AuthInput
	Body store.NewWedding
}

func (h *HostHandler) HandleCreateWedding(ctx context.Context, input *CreateWeddingInput) (*WeddingOutput, error) {
	hostID, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	wedding, err := h.store.CreateWedding(ctx, hostID, input.Body)
	if err != nil {
		return nil, hostError(ctx, "create wedding", err)
	}
	logger.FromContext(ctx).Info("wedding created",
		zap.String("wedding_id", wedding.ID.String()),
		zap.String("host_id", hostID),
	)
	return &WeddingOutput{Body: weddingView(wedding)}, nil
}

func (h *HostHandler) HandleGetWedding(ctx context.Context, input *WeddingInput) (*WeddingOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	return &WeddingOutput{Body: weddingView(wedding)}, nil
}

func (h *HostHandler) HandleDeleteWedding(ctx context.Context, input *WeddingInput) (*struct{}, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.store.DeleteWedding(ctx, wedding.ID); err != nil {
		return nil, hostError(ctx, "delete wedding", err)
	}
	logger.FromContext(ctx).Info("wedding deleted", zap.String("wedding_id", wedding.ID.String()))
	return nil, nil
}

type AddEventInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Wedding ID"`
	Body store.NewEvent
}

type EventOutput struct {
	Body models.Event
}

func (h *HostHandler) HandleAddEvent(ctx context.Context, input *AddEventInput) (*EventOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	event, err := h.store.AddEvent(ctx, wedding.ID, input.Body)
	if err != nil {
		return nil, hostError(ctx, "add event", err)
	}
	return &EventOutput{Body: *event}, nil
}

type ReorderEventsInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Wedding ID"`
	Body struct {
		EventIDs []uuid.UUID `json:"event_ids" doc:"Every event of the wedding in the new order"`
	}
}

type EventsOutput struct {
	Body []models.Event
}

func (h *HostHandler) HandleReorderEvents(ctx context.Context, input *ReorderEventsInput) (*EventsOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	events, err := h.store.ReorderEvents(ctx, wedding.ID, input.Body.EventIDs)
	if err != nil {
		return nil, hostError(ctx, "reorder events", err)
	}
	return &EventsOutput{Body: events}, nil
}

type SummaryOutput struct {
	Body rsvp.Summary
}

func (h *HostHandler) HandleSummary(ctx context.Context, input *WeddingInput) (*SummaryOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	summary, err := h.aggregator.Summary(ctx, wedding.ID)
	if err != nil {
		return nil, hostError(ctx, "summarize wedding", err)
	}
	return &SummaryOutput{Body: *summary}, nil
}

func hostError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound("Not found")
	case errors.Is(err, store.ErrInvalid):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	logger.FromContext(ctx).Error(op+" failed", zap.Error(err))
	return huma.Error500InternalServerError("Failed to " + op)
}
