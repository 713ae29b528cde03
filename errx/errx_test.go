package errx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegistryPrefixesCodes(t *testing.T) {
	reg := NewRegistry("MESSAGING")
	code := reg.Register("INVALID_MESSAGE", TypeValidation, http.StatusBadRequest, "Invalid message")

	if code != "MESSAGING_INVALID_MESSAGE" {
		t.Fatalf("expected prefixed code, got %s", code)
	}

	err := reg.NewWithMessage(code, "image id or link required")
	if err.Message != "image id or link required" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Type != TypeValidation || err.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected definition copy: %+v", err)
	}

	// the definition itself must stay untouched
	if reg.New(code).Message != "Invalid message" {
		t.Fatalf("registry definition was mutated")
	}
}

func TestRegistryWithoutPrefixKeepsCode(t *testing.T) {
	reg := NewRegistry("")
	code := reg.Register("NETWORK_ERROR", TypeUnavailable, 0, "No response")
	if code != "NETWORK_ERROR" {
		t.Fatalf("expected bare code, got %s", code)
	}
}

func TestRegistryUnknownCode(t *testing.T) {
	err := NewRegistry("X").New("NOPE")
	if err.Code != "UNKNOWN_ERROR" || err.Type != TypeInternal {
		t.Fatalf("expected unknown error fallback, got %+v", err)
	}
}

func TestIsHelpersFollowWrapping(t *testing.T) {
	base := NewWithCode("invalid_number", "Invalid phone number", TypeExternal).WithHTTPStatus(http.StatusBadRequest)
	wrapped := fmt.Errorf("send failed: %w", base)

	if !IsCode(wrapped, "invalid_number") {
		t.Fatalf("expected IsCode to match through wrapping")
	}
	if !IsType(wrapped, TypeExternal) {
		t.Fatalf("expected IsType to match through wrapping")
	}
	if !IsHTTPStatus(wrapped, http.StatusBadRequest) {
		t.Fatalf("expected IsHTTPStatus to match")
	}
	if IsCode(errors.New("plain"), "invalid_number") {
		t.Fatalf("plain errors must not match")
	}
	if got, ok := As(wrapped); !ok || got != base {
		t.Fatalf("As did not return the original error")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, "Failed to reach Graph API", TypeUnavailable)

	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	if err.Code != "UNAVAILABLE_ERROR" {
		t.Fatalf("unexpected code %s", err.Code)
	}
	if Wrap(nil, "x", TypeInternal) != nil {
		t.Fatalf("wrapping nil must return nil")
	}
}

func TestToHTTPDefaultsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWithCode("NETWORK_ERROR", "No response", TypeUnavailable).
		WithDetail("request", "POST /v22.0/1/messages").
		ToHTTP(rec)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for zero status, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Error.Code != "NETWORK_ERROR" || body.Error.Details["request"] == nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}
