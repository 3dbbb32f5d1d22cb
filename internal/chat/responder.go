package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// faqEntry maps a keyword to a canned answer. Matching is first-hit in
// declaration order, same as the table it replaces.
type faqEntry struct {
	keyword string
	answer  string
}

var faq = []faqEntry{
	{"how do i register", "To register, pick an event, choose your division, and complete the form. You'll receive a confirmation email."},
	{"refund", "Refunds follow organizer policy. Contact support with your registration ID."},
	{"weight", "Weight classes are listed on the event page under Divisions. Bring ID for weigh-ins."},
}

const fallbackAnswer = "I'm here to help with registrations, schedules, divisions, and weigh-ins. How can I assist?"

// Respond answers a user message from the FAQ table with generic
// fallbacks. Stateless and safe for concurrent use.
func Respond(message string) string {
	msg := strings.ToLower(message)

	for _, entry := range faq {
		if strings.Contains(msg, entry.keyword) {
			return entry.answer
		}
	}

	switch {
	case strings.Contains(msg, "register"):
		return "Use the Register button on the event card. The wizard will guide you."
	case strings.Contains(msg, "event"):
		return "You can browse upcoming events on the home page or search by city and date."
	default:
		return fallbackAnswer
	}
}

type Transcript struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"userMessage"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewTranscript(userMessage, response string) Transcript {
	return Transcript{
		ID:          uuid.NewString(),
		UserMessage: userMessage,
		Response:    response,
		CreatedAt:   time.Now().UTC(),
	}
}
