package chat

import (
	"strings"
	"testing"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantFrag string
	}{
		{
			name:     "faq_registration",
			message:  "How do I register for the spring open?",
			wantFrag: "confirmation email",
		},
		{
			name:     "faq_refund",
			message:  "what is your REFUND policy",
			wantFrag: "organizer policy",
		},
		{
			name:     "faq_weight_classes",
			message:  "where are the weight classes listed?",
			wantFrag: "weigh-ins",
		},
		{
			name:     "generic_register",
			message:  "can my team register together",
			wantFrag: "Register button",
		},
		{
			name:     "generic_event",
			message:  "when is the next event",
			wantFrag: "upcoming events",
		},
		{
			name:     "fallback",
			message:  "hello there",
			wantFrag: "How can I assist",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := Respond(tt.message)

			if !strings.Contains(got, tt.wantFrag) {
				t.Fatalf("Respond(%q) = %q, want fragment %q", tt.message, got, tt.wantFrag)
			}
		})
	}
}

func TestRespond_CaseInsensitive(t *testing.T) {
	lower := Respond("how do i register")
	upper := Respond("HOW DO I REGISTER")

	if lower != upper {
		t.Fatalf("case should not change the answer: %q vs %q", lower, upper)
	}
}

func TestNewTranscript(t *testing.T) {
	tr := NewTranscript("hi", "hello")

	if tr.ID == "" {
		t.Fatalf("expected a generated transcript ID")
	}

	if tr.UserMessage != "hi" || tr.Response != "hello" {
		t.Fatalf("transcript fields not carried over: %+v", tr)
	}

	if tr.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}
}
