package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/aivanahq/aivana-backend/pkg/auth"
	"github.com/aivanahq/aivana-backend/pkg/config"
	"github.com/aivanahq/aivana-backend/pkg/enums"
	"github.com/aivanahq/aivana-backend/pkg/logger"
)

func authJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "aivana", ExpirationMinutes: 60}
}

func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(authJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID:   userID,
		Username: "ada",
		Role:     enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var seen *http.Request
	handler := Auth(authJWTConfig(), logger.New(logger.Options{ServiceName: "test"}))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthSeedsContextFromBearerToken(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	rec, seen := runAuth(t, "Bearer "+mintToken(t, userID))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if seen == nil {
		t.Fatalf("handler was not reached")
	}
	if got := UserIDFromContext(seen.Context()); got != userID.String() {
		t.Fatalf("user id = %q", got)
	}
	if got := UsernameFromContext(seen.Context()); got != "ada" {
		t.Fatalf("username = %q", got)
	}
	if got := RoleFromContext(seen.Context()); got != string(enums.UserRoleSeller) {
		t.Fatalf("role = %q", got)
	}
}

func TestAuthAcceptsCaseInsensitiveScheme(t *testing.T) {
	t.Parallel()

	rec, _ := runAuth(t, "bearer "+mintToken(t, uuid.New()))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	t.Parallel()

	rec, seen := runAuth(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if seen != nil {
		t.Fatalf("handler was reached without credentials")
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	rec, _ := runAuth(t, "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	t.Parallel()

	otherCfg := authJWTConfig()
	otherCfg.Secret = "other-secret"
	token, err := pkgauth.MintAccessToken(otherCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "mallory",
		Role:     enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	rec, _ := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	token, err := pkgauth.MintAccessToken(authJWTConfig(), time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "ada",
		Role:     enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	rec, _ := runAuth(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
