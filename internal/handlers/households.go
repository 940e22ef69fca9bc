package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/wedding-rsvp-api/internal/auth"
	"github.com/gdg-garage/wedding-rsvp-api/internal/logger"
	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/gdg-garage/wedding-rsvp-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HouseholdView is what the host sees for a household, including the token
// needed to build the RSVP link.
type HouseholdView struct {
	ID              uuid.UUID      `json:"id"`
	WeddingID       uuid.UUID      `json:"wedding_id"`
	FamilyName      string         `json:"family_name"`
	RSVPToken       string         `json:"rsvp_token"`
	RSVPSubmittedAt *time.Time     `json:"rsvp_submitted_at,omitempty"`
	Guests          []models.Guest `json:"guests"`
}

func householdView(h *models.Household) HouseholdView {
	guests := h.Guests
	if guests == nil {
		guests = []models.Guest{}
	}
	return HouseholdView{
		ID:              h.ID,
		WeddingID:       h.WeddingID,
		FamilyName:      h.FamilyName,
		RSVPToken:       h.RSVPToken,
		RSVPSubmittedAt: h.RSVPSubmittedAt,
		Guests:          guests,
	}
}

type ListHouseholdsOutput struct {
	Body []HouseholdView
}

func (h *HostHandler) HandleListHouseholds(ctx context.Context, input *WeddingInput) (*ListHouseholdsOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	households, err := h.store.Households(ctx, wedding.ID)
	if err != nil {
		return nil, hostError(ctx, "list households", err)
	}

	out := &ListHouseholdsOutput{Body: make([]HouseholdView, 0, len(households))}
	for i := range households {
		out.Body = append(out.Body, householdView(&households[i]))
	}
	return out, nil
}

type CreateHouseholdInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Wedding ID"`
	Body store.NewHousehold
}

type HouseholdOutput struct {
	Body HouseholdView
}

func (h *HostHandler) HandleCreateHousehold(ctx context.Context, input *CreateHouseholdInput) (*HouseholdOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	household, err := h.store.CreateHousehold(ctx, wedding.ID, input.Body)
	if err != nil {
		return nil, hostError(ctx, "create household", err)
	}
	return &HouseholdOutput{Body: householdView(household)}, nil
}

type ImportGuestsInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Wedding ID"`
	Body struct {
		Rows []store.ImportRow `json:"rows" doc:"Parsed guest list rows"`
	}
}

type ImportGuestsOutput struct {
	Body store.ImportResult
}

func (h *HostHandler) HandleImportGuests(ctx context.Context, input *ImportGuestsInput) (*ImportGuestsOutput, error) {
	wedding, err := h.ownedWedding(ctx, input.AuthInput, input.ID)
	if err != nil {
		return nil, err
	}
	result, err := h.store.ImportGuests(ctx, wedding.ID, input.Body.Rows)
	if err != nil {
		return nil, hostError(ctx, "import guests", err)
	}
	logger.FromContext(ctx).Info("guest list imported",
		zap.String("wedding_id", wedding.ID.String()),
		zap.Int("households_created", result.HouseholdsCreated),
		zap.Int("guests_created", result.GuestsCreated),
	)
	return &ImportGuestsOutput{Body: *result}, nil
}

type AddGuestInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Household ID"`
	Body store.NewGuest
}

type GuestOutput struct {
	Body models.Guest
}

func (h *HostHandler) HandleAddGuest(ctx context.Context, input *AddGuestInput) (*GuestOutput, error) {
	householdID, err := h.ownedThrough(ctx, input.AuthInput, input.ID, h.store.HouseholdWeddingID)
	if err != nil {
		return nil, err
	}
	guest, err := h.store.AddGuest(ctx, householdID, input.Body)
	if err != nil {
		return nil, hostError(ctx, "add guest", err)
	}
	return &GuestOutput{Body: *guest}, nil
}

type UpdateGuestInput struct {
	auth.AuthInput
	ID   string `path:"id" format:"uuid" doc:"Guest ID"`
	Body store.GuestUpdate
}

func (h *HostHandler) HandleUpdateGuest(ctx context.Context, input *UpdateGuestInput) (*GuestOutput, error) {
	guestID, err := h.ownedThrough(ctx, input.AuthInput, input.ID, h.store.GuestWeddingID)
	if err != nil {
		return nil, err
	}
	guest, err := h.store.UpdateGuest(ctx, guestID, input.Body)
	if err != nil {
		return nil, hostError(ctx, "update guest", err)
	}
	return &GuestOutput{Body: *guest}, nil
}

type GuestInput struct {
	auth.AuthInput
	ID string `path:"id" format:"uuid" doc:"Guest ID"`
}

func (h *HostHandler) HandleRemoveGuest(ctx context.Context, input *GuestInput) (*struct{}, error) {
	guestID, err := h.ownedThrough(ctx, input.AuthInput, input.ID, h.store.GuestWeddingID)
	if err != nil {
		return nil, err
	}
	if err := h.store.RemoveGuest(ctx, guestID); err != nil {
		return nil, hostError(ctx, "remove guest", err)
	}
	return nil, nil
}

// ownedThrough checks that the record identified by id hangs off a wedding
// the caller owns. weddingOf resolves the record to its wedding.
func (h *HostHandler) ownedThrough(ctx context.Context, in auth.AuthInput, id string, weddingOf func(context.Context, uuid.UUID) (uuid.UUID, error)) (uuid.UUID, error) {
	hostID, err := h.authHandler.Authorize(ctx, in)
	if err != nil {
		return uuid.Nil, err
	}
	recordID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, huma.Error404NotFound("Not found")
	}
	weddingID, err := weddingOf(ctx, recordID)
	if err != nil {
		return uuid.Nil, hostError(ctx, "load record", err)
	}
	if _, err := h.store.WeddingForHost(ctx, hostID, weddingID); err != nil {
		return uuid.Nil, hostError(ctx, "load wedding", err)
	}
	return recordID, nil
}
