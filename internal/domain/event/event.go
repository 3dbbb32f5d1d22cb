package event

import (
	"errors"
	"time"
)

type Event struct {
	ID          string     `json:"id"`
	ExternalID  string     `json:"externalId,omitempty"` // Smoothcomp id when synced
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	RuleSet     string     `json:"ruleSet,omitempty"` // e.g. Freestyle, Greco
	Organizer   string     `json:"organizer,omitempty"`
	StartAt     time.Time  `json:"startAt"`
	EndAt       *time.Time `json:"endAt,omitempty"`
	Capacity    int        `json:"capacity"`
	Published   bool       `json:"published"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ListEventsFilter struct {
	RuleSet   *string
	Published *bool
	Limit     int
}

var ErrNotFound = errors.New("event not found")

type CreateEventRequest struct {
	ExternalID  string     `json:"externalId" binding:"omitempty,max=64"`
	Title       string     `json:"title" binding:"required,min=3,max=120"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Location    string     `json:"location" binding:"omitempty,min=2,max=120"`
	RuleSet     string     `json:"ruleSet" binding:"omitempty,max=40"`
	Organizer   string     `json:"organizer" binding:"omitempty,max=120"`
	StartAt     time.Time  `json:"startAt" binding:"required"`
	EndAt       *time.Time `json:"endAt" binding:"omitempty"`
	Capacity    int        `json:"capacity" binding:"required,min=1,max=50000"`
	Published   *bool      `json:"published" binding:"omitempty"`
}

// a full update payload, might switch to a patch which optionally provides means for partial updates.
type UpdateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=120"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	Location    string     `json:"location" binding:"omitempty,min=2,max=120"`
	RuleSet     string     `json:"ruleSet" binding:"omitempty,max=40"`
	Organizer   string     `json:"organizer" binding:"omitempty,max=120"`
	StartAt     time.Time  `json:"startAt" binding:"required"`
	EndAt       *time.Time `json:"endAt" binding:"omitempty"`
	Capacity    int        `json:"capacity" binding:"required,min=1,max=50000"`
	Published   *bool      `json:"published" binding:"omitempty"`
}
