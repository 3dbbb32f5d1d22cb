package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wrestlepro/wrestlepro/internal/http/handlers"
)

type bindErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string                `json:"json"`
			Field  string                `json:"field"`
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func bindTarget() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req handlers.SignUpRequest

		if !handlers.BindJSON(ctx, &req) {
			return
		}

		ctx.Status(http.StatusOK)
	}
}

func TestBindJSON_ValidationErrorsUseJSONFieldNames(t *testing.T) {
	r := setupRouter(http.MethodPost, "/signup", bindTarget())

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email": "nope", "password": "short", "role": "referee"}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Error.Code != "invalid_request" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}

	wantRules := map[string]string{
		"email":    "email",
		"password": "min",
		"role":     "oneof",
	}

	got := make(map[string]string, len(resp.Error.Details.Fields))

	for _, f := range resp.Error.Details.Fields {
		got[f.Field] = f.Rule
	}

	for field, rule := range wantRules {
		if got[field] != rule {
			t.Fatalf("field %q: got rule %q, want %q (fields=%+v)", field, got[field], rule, resp.Error.Details.Fields)
		}
	}
}

func TestBindJSON_SyntaxError(t *testing.T) {
	r := setupRouter(http.MethodPost, "/signup", bindTarget())

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email": `, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if resp.Error.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("unexpected details: %s", w.Body.String())
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	r := setupRouter(http.MethodPost, "/signup", bindTarget())

	w := doJSON(t, r, http.MethodPost, "/signup", `{"email": "a@b.com", "password": 12345678}`, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp bindErrorResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if resp.Error.Details.JSON != "invalid_json_type" {
		t.Fatalf("unexpected details: %s", w.Body.String())
	}

	if resp.Error.Details.Field != "password" {
		t.Fatalf("got field %q, want %q", resp.Error.Details.Field, "password")
	}
}
