package jobs

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const TypeRegistrationConfirmation = "registration.confirmation"

var ErrInvalidPayload = errors.New("invalid job payload")

type RegistrationConfirmationPayload struct {
	RegistrationID string    `json:"registrationId"`
	EventID        string    `json:"eventId"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	RequestedAt    time.Time `json:"requestedAt"`
}

func (p RegistrationConfirmationPayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// DecodeRegistrationConfirmation unmarshals and validates a confirmation
// payload produced at registration time.
func DecodeRegistrationConfirmation(raw json.RawMessage) (RegistrationConfirmationPayload, error) {
	var p RegistrationConfirmationPayload

	if len(raw) == 0 {
		return p, ErrInvalidPayload
	}

	if err := json.Unmarshal(raw, &p); err != nil {
		return p, ErrInvalidPayload
	}

	if strings.TrimSpace(p.RegistrationID) == "" || strings.TrimSpace(p.EventID) == "" || strings.TrimSpace(p.Email) == "" {
		return p, ErrInvalidPayload
	}

	return p, nil
}
