package registration

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

type Participant struct {
	FirstName   string `json:"firstName" binding:"required,min=1,max=80"`
	LastName    string `json:"lastName" binding:"required,min=1,max=80"`
	Email       string `json:"email" binding:"required,email"`
	BirthYear   *int   `json:"birthYear" binding:"omitempty,min=1900,max=2100"`
	WeightClass string `json:"weightClass" binding:"omitempty,max=40"`
	Club        string `json:"club" binding:"omitempty,max=120"`
	Country     string `json:"country" binding:"omitempty,max=80"`
}

type Registration struct {
	ID          string      `json:"id"`
	EventID     string      `json:"eventId"`
	UserID      string      `json:"userId,omitempty"`
	Participant Participant `json:"participant"`
	Division    string      `json:"division,omitempty"`
	Belt        string      `json:"belt,omitempty"`
	Status      Status      `json:"status"`
	ExternalRef string      `json:"externalRef,omitempty"` // Smoothcomp registration id if synced
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

var (
	ErrAlreadyRegistered = errors.New("registration already exists")
	ErrEventFull         = errors.New("event is full")
	ErrNotFound          = errors.New("registration not found")
)

type CreateRegistrationRequest struct {
	EventID     string      `json:"-"`
	UserID      string      `json:"-"`
	Participant Participant `json:"participant" binding:"required"`
	Division    string      `json:"division" binding:"omitempty,max=60"`
	Belt        string      `json:"belt" binding:"omitempty,max=40"`
}

// A factory to build a Registration from the incoming DTO

func NewFromCreateRequest(req CreateRegistrationRequest) Registration {
	now := time.Now().UTC()
	return Registration{
		ID:          uuid.NewString(),
		EventID:     req.EventID,
		UserID:      req.UserID,
		Participant: req.Participant,
		Division:    req.Division,
		Belt:        req.Belt,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
