package session

import (
	"testing"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			Subject:   "42",
		},
		UserID:    "42",
		Username:  "chef",
		TokenType: "refresh",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func testState() State {
	return State{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User:         &domain.User{ID: "42", Username: "chef", FirstName: "Marie"},
		APIBaseURL:   "http://backend.test/api",
	}
}
