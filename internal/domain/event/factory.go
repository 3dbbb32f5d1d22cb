package event

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	return Event{
		ID:          uuid.NewString(),
		ExternalID:  req.ExternalID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		RuleSet:     req.RuleSet,
		Organizer:   req.Organizer,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Capacity:    req.Capacity,
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
