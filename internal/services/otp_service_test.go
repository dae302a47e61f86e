package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"autoclient/internal/models"
	"autoclient/internal/services"
	"autoclient/internal/utils"
)

func TestIssueChallengeStoresOnlyHash(t *testing.T) {
	repo := newFakeOtpRepo(&fakeDeviceRepo{})
	engine := services.NewOtpService(repo)

	otp, code, err := engine.IssueChallenge(42)
	require.NoError(t, err)
	require.Len(t, code, 6)
	require.Equal(t, utils.HashToken(code), otp.CodeHash)
	require.NotEqual(t, code, otp.CodeHash)
	require.NotEmpty(t, otp.OtpToken)
	require.Equal(t, int64(42), otp.WorkshopID)
	require.Equal(t, 0, otp.Attempts)
	require.Equal(t, 5, otp.MaxAttempts)

	// TTL примерно 10 минут
	ttl := time.Until(otp.ExpiresAt)
	require.Greater(t, ttl, 9*time.Minute)
	require.LessOrEqual(t, ttl, 10*time.Minute)

	stored, err := repo.GetByToken(otp.OtpToken)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestIssueChallengeTokensAreUnique(t *testing.T) {
	repo := newFakeOtpRepo(&fakeDeviceRepo{})
	engine := services.NewOtpService(repo)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		otp, _, err := engine.IssueChallenge(1)
		require.NoError(t, err)
		require.False(t, seen[otp.OtpToken])
		seen[otp.OtpToken] = true
	}
}

func TestVerifyStatuses(t *testing.T) {
	engine := services.NewOtpService(newFakeOtpRepo(&fakeDeviceRepo{}))
	now := time.Now()

	base := models.LoginOtp{
		ID:          1,
		WorkshopID:  1,
		CodeHash:    utils.HashToken("123456"),
		OtpToken:    "tok",
		ExpiresAt:   now.Add(5 * time.Minute),
		Attempts:    1,
		MaxAttempts: 5,
	}

	t.Run("success", func(t *testing.T) {
		otp := base
		require.Equal(t, services.VerifyStatusSuccess, engine.Verify(&otp, "123456", now))
	})

	t.Run("incorrect code", func(t *testing.T) {
		otp := base
		require.Equal(t, services.VerifyStatusIncorrectCode, engine.Verify(&otp, "654321", now))
	})

	t.Run("expired", func(t *testing.T) {
		otp := base
		otp.ExpiresAt = now.Add(-time.Second)
		require.Equal(t, services.VerifyStatusExpired, engine.Verify(&otp, "123456", now))
	})

	t.Run("attempts exhausted", func(t *testing.T) {
		otp := base
		otp.Attempts = otp.MaxAttempts + 1
		require.Equal(t, services.VerifyStatusAttemptsExhausted, engine.Verify(&otp, "123456", now))
	})

	t.Run("last attempt allowed", func(t *testing.T) {
		// attempts == max значит инкремент уже прошёл guard, код ещё принимаем
		otp := base
		otp.Attempts = otp.MaxAttempts
		require.Equal(t, services.VerifyStatusSuccess, engine.Verify(&otp, "123456", now))
	})

	t.Run("nil record", func(t *testing.T) {
		require.Equal(t, services.VerifyStatusNotFound, engine.Verify(nil, "123456", now))
	})
}
