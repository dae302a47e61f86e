package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
	"autoclient/internal/utils"
)

// Параметры challenge-а. Лимит попыток фиксированный, не из конфига.
const (
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
)

// VerifyStatus — исход проверки кода без побочных эффектов.
type VerifyStatus int

const (
	VerifyStatusSuccess VerifyStatus = iota
	VerifyStatusIncorrectCode
	VerifyStatusExpired
	VerifyStatusAttemptsExhausted
	VerifyStatusNotFound
)

type OtpService interface {
	// IssueChallenge создаёт challenge и возвращает сырой код ровно один
	// раз — для отправки письмом. В БД лежит только sha256-хэш.
	IssueChallenge(workshopID int64) (otp *models.LoginOtp, rawCode string, err error)
	// Verify — чистая проверка записи против введённого кода. Инкремент
	// attempts остаётся на вызывающей стороне.
	Verify(otp *models.LoginOtp, code string, now time.Time) VerifyStatus
}

type otpService struct {
	repo repositories.LoginOtpRepository
}

func NewOtpService(repo repositories.LoginOtpRepository) OtpService {
	return &otpService{repo: repo}
}

// generateCode — 6 цифр из crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("otp generate: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *otpService) IssueChallenge(workshopID int64) (*models.LoginOtp, string, error) {
	code, err := generateCode()
	if err != nil {
		return nil, "", err
	}

	otp := &models.LoginOtp{
		WorkshopID:  workshopID,
		CodeHash:    utils.HashToken(code),
		OtpToken:    uuid.NewString(),
		ExpiresAt:   time.Now().Add(otpTTL),
		Attempts:    0,
		MaxAttempts: otpMaxAttempts,
	}
	if err := s.repo.Create(otp); err != nil {
		return nil, "", err
	}
	return otp, code, nil
}

func (s *otpService) Verify(otp *models.LoginOtp, code string, now time.Time) VerifyStatus {
	if otp == nil {
		return VerifyStatusNotFound
	}
	if now.After(otp.ExpiresAt) {
		return VerifyStatusExpired
	}
	if otp.Attempts > otp.MaxAttempts {
		return VerifyStatusAttemptsExhausted
	}
	// сравнение только по хэшу — сырой код в записи не хранится
	if utils.HashToken(code) != otp.CodeHash {
		return VerifyStatusIncorrectCode
	}
	return VerifyStatusSuccess
}
