package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/aivanahq/aivana-backend/pkg/errors"
)

type signupPayload struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"ada","email":"ada@example.com"}`))

	var dest signupPayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Username != "ada" || dest.Email != "ada@example.com" {
		t.Fatalf("unexpected payload: %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":`))

	var dest signupPayload
	err := DecodeJSONBody(r, &dest)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"ada","email":"ada@example.com","admin":true}`))

	var dest signupPayload
	err := DecodeJSONBody(r, &dest)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	t.Parallel()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"ab","email":"not-an-email"}`))

	var dest signupPayload
	err := DecodeJSONBody(r, &dest)
	appErr := apperrors.As(err)
	if appErr == nil || appErr.Code() != apperrors.CodeValidation {
		t.Fatalf("want validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("details type %T", appErr.Details())
	}
	if details["username"] != "must be at least 3" {
		t.Fatalf("username detail = %q", details["username"])
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("email detail = %q", details["email"])
	}
}
