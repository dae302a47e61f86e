package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"autoclient/internal/middleware"
)

const sessionTokenTTL = 7 * 24 * time.Hour

type TokenService interface {
	Issue(workshopID int64) (string, error)
}

type tokenService struct {
	key    []byte
	issuer string
}

func NewTokenService(key []byte, issuer string) TokenService {
	return &tokenService{key: key, issuer: issuer}
}

// Issue выдаёт HS256-токен сессии на 7 дней с типизированным workshop_id.
func (s *tokenService) Issue(workshopID int64) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		WorkshopID: workshopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(workshopID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("token sign: %w", err)
	}
	return signed, nil
}
