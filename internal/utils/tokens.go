package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewDeviceToken возвращает opaque-токен (hex из nBytes случайных байт).
func NewDeviceToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 бит по умолчанию
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken — sha256 в hex. Используется и для OTP-кодов, и для device-токенов:
// в БД попадает только хэш.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
