package services_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"autoclient/internal/middleware"
	"autoclient/internal/services"
)

func TestIssueSessionToken(t *testing.T) {
	key := []byte("test-key")
	tokens := services.NewTokenService(key, "autoclient")

	signed, err := tokens.Issue(7)
	require.NoError(t, err)

	claims := &middleware.Claims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, int64(7), claims.WorkshopID)
	require.Equal(t, "autoclient", claims.Issuer)
	require.Equal(t, "7", claims.Subject)

	ttl := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, ttl, 6*24*time.Hour)
	require.LessOrEqual(t, ttl, 7*24*time.Hour)
}

func TestIssueRejectsWrongKey(t *testing.T) {
	tokens := services.NewTokenService([]byte("right-key"), "autoclient")
	signed, err := tokens.Issue(7)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &middleware.Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-key"), nil
	})
	require.Error(t, err)
}
