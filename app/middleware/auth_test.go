package appMiddleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, userID string, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  "traveler@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestAuthenticate_ValidToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	middleware := Authenticate(testSecret, logger)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		gotUserID = userID
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "9f4c1e2a-0000-4000-8000-000000000001", testSecret))
	rec := httptest.NewRecorder()
	middleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9f4c1e2a-0000-4000-8000-000000000001", gotUserID)
}

func TestAuthenticate_Rejections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	middleware := Authenticate(testSecret, logger)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong secret", "Bearer " + signToken(t, "user-1", []byte("other-secret"))},
		{"empty user id", "Bearer " + signToken(t, "", testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			middleware(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
