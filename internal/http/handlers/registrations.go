package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/wrestlepro/wrestlepro/internal/config"
	"github.com/wrestlepro/wrestlepro/internal/domain/event"
	"github.com/wrestlepro/wrestlepro/internal/domain/job"
	"github.com/wrestlepro/wrestlepro/internal/domain/registration"
	"github.com/wrestlepro/wrestlepro/internal/http/middlewares"
	"github.com/wrestlepro/wrestlepro/internal/jobs"
	"github.com/wrestlepro/wrestlepro/internal/repo/postgres"
	"github.com/wrestlepro/wrestlepro/internal/utils"
)

type RegistrationsRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, req registration.CreateRegistrationRequest) (registration.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]registration.Registration, error)
	GetByID(ctx context.Context, eventID, registrationID string) (registration.Registration, error)
}

type JobsCreator interface {
	CreateTx(ctx context.Context, tx pgx.Tx, req job.CreateRequest) (job.Job, error)
}

type RegistrationsHandler struct {
	repo     RegistrationsRepository
	jobsRepo JobsCreator
}

func NewRegistrationsHandler(repo RegistrationsRepository, jobsRepo JobsCreator) *RegistrationsHandler {
	return &RegistrationsHandler{repo: repo, jobsRepo: jobsRepo}
}

// Register creates a registration and its confirmation job in one
// transaction; either both commit or neither does.
func (h *RegistrationsHandler) Register(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if !utils.IsUUID(eventID) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// URL param is the source of truth

	req.EventID = eventID

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "invalid_credentials", "Missing identity context")
		return
	}

	req.UserID = u.ID

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	tx, err := h.repo.BeginTx(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not register for event")
		return
	}

	defer func() { _ = tx.Rollback(cctx) }()

	reg, err := h.repo.CreateTx(cctx, tx, req)

	if err != nil {
		switch {
		case errors.Is(err, registration.ErrAlreadyRegistered):
			RespondConflict(ctx, "already_registered", "this participant is already registered for this event.")
		case errors.Is(err, registration.ErrEventFull):
			RespondConflict(ctx, "event_full", "this event is already at full capacity.")
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		default:
			RespondInternal(ctx, "Could not register for event")
		}
		return
	}

	payload := jobs.RegistrationConfirmationPayload{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Email:          reg.Participant.Email,
		Name:           reg.Participant.FirstName + " " + reg.Participant.LastName,
		RequestedAt:    time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		RespondInternal(ctx, "Could not register for event")
		return
	}

	// idempotency key ties one confirmation job to one registration
	key := "registration:confirm:" + reg.ID

	_, err = h.jobsRepo.CreateTx(cctx, tx, job.CreateRequest{
		Type:           jobs.TypeRegistrationConfirmation,
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		MaxAttempts:    10,
		IdempotencyKey: &key,
	})
	if err != nil {
		// duplicate idempotency key inside the same tx is fine (rare, but safe)
		if !postgres.IsUniqueViolation(err) {
			RespondInternal(ctx, "Could not register for event")
			return
		}
	}

	// Commit once
	if err := tx.Commit(cctx); err != nil {
		RespondInternal(ctx, "Could not register for event")
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

func (h *RegistrationsHandler) ListForEvent(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if !utils.IsUUID(eventID) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	regs, err := h.repo.ListByEvent(cctx, eventID)
	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}

		RespondInternal(ctx, "Could not list registrations")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"eventId":       eventID,
		"count":         len(regs),
		"registrations": regs,
	})
}

func (h *RegistrationsHandler) GetRegistration(ctx *gin.Context) {
	eventID := ctx.Param("id")
	registrationID := ctx.Param("regId")

	if !utils.IsUUID(eventID) {
		RespondBadRequest(ctx, "event id must be a valid UUID", nil)
		return
	}

	if !utils.IsUUID(registrationID) {
		RespondBadRequest(ctx, "registration id must be a valid UUID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	reg, err := h.repo.GetByID(cctx, eventID, registrationID)

	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			RespondNotFound(ctx, "Registration not found")
			return
		}

		RespondInternal(ctx, "Could not fetch registration")
		return
	}

	ctx.JSON(http.StatusOK, reg)
}
