package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/wedding-rsvp-api/internal/logger"
	"github.com/gdg-garage/wedding-rsvp-api/internal/metrics"
	"github.com/gdg-garage/wedding-rsvp-api/internal/models"
	"github.com/gdg-garage/wedding-rsvp-api/internal/rsvp"
	"github.com/gdg-garage/wedding-rsvp-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotFound    = "invitation not found"
	msgRetry       = "could not submit, please retry"
	msgUnavailable = "temporarily unavailable, please retry"
)

// RSVPHandler serves the guest-facing pages. The household token in the
// path is the only credential.
type RSVPHandler struct {
	resolver    *rsvp.Resolver
	coordinator *rsvp.Coordinator
	store       *store.Store
	metrics     *metrics.Metrics
}

func NewRSVPHandler(resolver *rsvp.Resolver, coordinator *rsvp.Coordinator, s *store.Store, m *metrics.Metrics) *RSVPHandler {
	return &RSVPHandler{resolver: resolver, coordinator: coordinator, store: s, metrics: m}
}

type TokenInput struct {
	Token string `path:"token" maxLength:"128" doc:"Household RSVP token"`
}

type Invitation struct {
	Household models.Household              `json:"household"`
	Wedding   models.Wedding                `json:"wedding"`
	Guests    []models.Guest                `json:"guests"`
	Events    []models.Event                `json:"events"`
	Answers   []models.GuestEventInvitation `json:"answers"`
}

type InvitationOutput struct {
	Body Invitation
}

func (h *RSVPHandler) HandleResolve(ctx context.Context, input *TokenInput) (*InvitationOutput, error) {
	res, err := h.resolver.Resolve(ctx, input.Token)
	h.metrics.Resolution(outcome(err))
	if err != nil {
		return nil, guestError(ctx, "resolve invitation", err)
	}

	return &InvitationOutput{Body: Invitation{
		Household: res.Household,
		Wedding:   res.Wedding,
		Guests:    res.Guests,
		Events:    res.Events,
		Answers:   res.Answers,
	}}, nil
}

type AnswerInput struct {
	GuestID   uuid.UUID `json:"guest_id" doc:"Guest the answer is for"`
	EventID   uuid.UUID `json:"event_id" doc:"Event the answer is for"`
	Attending *bool     `json:"attending" required:"false" nullable:"true" doc:"true, false, or null to leave unanswered"`
}

type SubmitInput struct {
	Token string `path:"token" maxLength:"128" doc:"Household RSVP token"`
	Body  struct {
		Answers []AnswerInput `json:"answers" doc:"Answers for the household's guests"`
	}
}

type SubmitOutput struct {
	Body struct {
		Message     string    `json:"message"`
		Recorded    int       `json:"recorded"`
		SubmittedAt time.Time `json:"submitted_at"`
	}
}

func (h *RSVPHandler) HandleSubmit(ctx context.Context, input *SubmitInput) (*SubmitOutput, error) {
	res, err := h.resolver.Resolve(ctx, input.Token)
	if err != nil {
		h.metrics.Submission(outcome(err), 0)
		return nil, guestError(ctx, "resolve invitation", err)
	}

	answers := make([]rsvp.Answer, 0, len(input.Body.Answers))
	for _, a := range input.Body.Answers {
		answers = append(answers, rsvp.Answer{GuestID: a.GuestID, EventID: a.EventID, Attending: a.Attending})
	}

	receipt, err := h.coordinator.Submit(ctx, res.Household.ID, rsvp.BatchFromAnswers(answers))
	if err != nil {
		h.metrics.Submission(outcome(err), 0)
		return nil, guestError(ctx, "submit rsvp", err)
	}
	h.metrics.Submission(outcome(nil), receipt.Recorded)

	logger.FromContext(ctx).Info("rsvp submitted",
		zap.String("household_id", receipt.HouseholdID.String()),
		zap.Int("recorded", receipt.Recorded),
	)

	out := &SubmitOutput{}
	out.Body.Message = "RSVP received"
	out.Body.Recorded = receipt.Recorded
	out.Body.SubmittedAt = receipt.SubmittedAt
	return out, nil
}

type SlugInput struct {
	Slug string `path:"slug" maxLength:"200" doc:"Public wedding slug"`
}

type PublicWeddingOutput struct {
	Body WeddingView
}

func (h *RSVPHandler) HandleWeddingPage(ctx context.Context, input *SlugInput) (*PublicWeddingOutput, error) {
	wedding, err := h.store.WeddingBySlug(ctx, input.Slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("wedding not found")
		}
		logger.FromContext(ctx).Error("load wedding page failed", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to load wedding")
	}
	return &PublicWeddingOutput{Body: weddingView(wedding)}, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return rsvp.KindOf(err).String()
}

// guestError maps RSVP failures onto the three outcomes a guest can act on.
// Nothing about the failure leaks beyond its kind.
func guestError(ctx context.Context, op string, err error) error {
	switch rsvp.KindOf(err) {
	case rsvp.KindNotFound:
		return huma.Error404NotFound(msgNotFound)
	case rsvp.KindValidation:
		logger.FromContext(ctx).Warn(op+" rejected", zap.Error(err))
		return huma.Error422UnprocessableEntity(msgRetry)
	default:
		logger.FromContext(ctx).Error(op+" failed", zap.Error(err))
		return huma.Error503ServiceUnavailable(msgUnavailable)
	}
}
