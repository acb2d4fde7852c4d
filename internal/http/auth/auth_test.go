package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendsmart/spendsmart/internal/http/auth"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(auth.UserID(r.Context()).String()))
}

func TestMiddleware(t *testing.T) {
	secret := []byte("s3cret")
	userID := uuid.New()
	defaultUser := uuid.New()

	valid, err := auth.NewToken(secret, userID)
	require.NoError(t, err)

	wrongKey, err := auth.NewToken([]byte("other"), userID)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString(secret)
	require.NoError(t, err)

	type testCase struct {
		name     string
		secret   []byte
		header   string
		wantCode int
		wantUser uuid.UUID
	}

	tests := []testCase{
		{name: "ValidToken", secret: secret, header: "Bearer " + valid, wantCode: http.StatusOK, wantUser: userID},
		{name: "MissingToken", secret: secret, wantCode: http.StatusUnauthorized},
		{name: "WrongScheme", secret: secret, header: "Token " + valid, wantCode: http.StatusUnauthorized},
		{name: "WrongKey", secret: secret, header: "Bearer " + wrongKey, wantCode: http.StatusUnauthorized},
		{name: "SubjectNotUUID", secret: secret, header: "Bearer " + badSubject, wantCode: http.StatusUnauthorized},
		{name: "AuthDisabled", wantCode: http.StatusOK, wantUser: defaultUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := auth.Middleware(tt.secret, defaultUser)(http.HandlerFunc(echoUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantUser.String(), rec.Body.String())
			}
		})
	}
}
