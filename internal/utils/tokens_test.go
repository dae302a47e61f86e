package utils_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"autoclient/internal/utils"
)

func TestNewDeviceToken(t *testing.T) {
	tok, err := utils.NewDeviceToken(32)
	require.NoError(t, err)
	require.Len(t, tok, 64)
	_, err = hex.DecodeString(tok)
	require.NoError(t, err)

	other, err := utils.NewDeviceToken(32)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)
}

func TestNewDeviceTokenDefaultsSize(t *testing.T) {
	tok, err := utils.NewDeviceToken(0)
	require.NoError(t, err)
	require.Len(t, tok, 64) // 32 байта по умолчанию

	tok, err = utils.NewDeviceToken(16)
	require.NoError(t, err)
	require.Len(t, tok, 32)
}

func TestHashToken(t *testing.T) {
	// известный вектор sha256("123456")
	require.Equal(t,
		"8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92",
		utils.HashToken("123456"),
	)
	require.NotEqual(t, utils.HashToken("123456"), utils.HashToken("123457"))
	require.Len(t, utils.HashToken(""), 64)
}
