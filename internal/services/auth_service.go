package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
	"autoclient/internal/utils"
)

var (
	// ErrInvalidCredentials — единый ответ и на неизвестный username, и на
	// неверный пароль. Наружу не различаем.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrChallengeInvalid — OTP-токен не найден, истёк или попытки выбраны.
	ErrChallengeInvalid = errors.New("invalid or expired challenge")
	// ErrCodeIncorrect — код не совпал, попытка потрачена.
	ErrCodeIncorrect = errors.New("incorrect code")
	ErrConflict      = errors.New("username or subdomain already taken")
)

const deviceCookieTokenBytes = 32

// LoginResult — либо сразу сессия (trusted device), либо OTP-челлендж.
type LoginResult struct {
	NeedOtp      bool
	OtpToken     string
	Token        string
	WorkshopName string
	Subdomain    string
}

// VerifyResult — успешная верификация: сессия плюс сырой device-токен
// для установки cookie. Токен существует только здесь, в БД — хэш.
type VerifyResult struct {
	Token        string
	WorkshopName string
	Subdomain    string
	DeviceToken  string
}

type AuthService interface {
	Register(req *models.RegisterRequest) (*models.Workshop, error)
	Login(username, password, deviceCookie string) (*LoginResult, error)
	VerifyOtp(otpToken, code, userAgent, ipAddress string) (*VerifyResult, error)
	Me(workshopID int64) (*models.Workshop, error)
	ListDevices(workshopID int64) ([]*models.TrustedDevice, error)
	RevokeDevice(workshopID, deviceID int64) (bool, error)
	HashPassword(password string) (string, error)
}

type authService struct {
	workshops repositories.WorkshopRepository
	devices   repositories.TrustedDeviceRepository
	otps      repositories.LoginOtpRepository
	otpEngine OtpService
	tokens    TokenService
	emails    EmailService
}

func NewAuthService(
	workshops repositories.WorkshopRepository,
	devices repositories.TrustedDeviceRepository,
	otps repositories.LoginOtpRepository,
	otpEngine OtpService,
	tokens TokenService,
	emails EmailService,
) AuthService {
	return &authService{
		workshops: workshops,
		devices:   devices,
		otps:      otps,
		otpEngine: otpEngine,
		tokens:    tokens,
		emails:    emails,
	}
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Register(req *models.RegisterRequest) (*models.Workshop, error) {
	username := strings.TrimSpace(strings.ToLower(req.Username))
	subdomain := strings.TrimSpace(strings.ToLower(req.Subdomain))
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	taken, err := s.workshops.ExistsByUsernameOrSubdomain(username, subdomain)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrConflict
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	w := &models.Workshop{
		WorkshopName: strings.TrimSpace(req.WorkshopName),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Subdomain:    subdomain,
		PasswordHash: hash,
	}
	if err := s.workshops.Create(w); err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.SendWelcomeEmail(w.Email, w.WorkshopName); err != nil {
			// регистрацию не откатываем
			log.Printf("[auth][register] warning: welcome email to %s failed: %v", w.Email, err)
		}
	}
	return w, nil
}

// Login — пароль, потом trusted device, потом OTP.
func (s *authService) Login(username, password, deviceCookie string) (*LoginResult, error) {
	username = strings.TrimSpace(strings.ToLower(username))

	w, err := s.workshops.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(w.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// знакомое устройство — OTP не нужен
	if deviceCookie != "" {
		device, err := s.devices.FindActiveByHash(w.ID, utils.HashToken(deviceCookie))
		if err != nil {
			return nil, err
		}
		if device != nil {
			if err := s.devices.TouchLastUsed(device.ID); err != nil {
				log.Printf("[auth][login] touch device %d: %v", device.ID, err)
			}
			token, err := s.tokens.Issue(w.ID)
			if err != nil {
				return nil, err
			}
			return &LoginResult{
				Token:        token,
				WorkshopName: w.WorkshopName,
				Subdomain:    w.Subdomain,
			}, nil
		}
	}

	otp, code, err := s.otpEngine.IssueChallenge(w.ID)
	if err != nil {
		return nil, err
	}

	// запись уже в БД; если письмо не ушло — challenge остаётся валидным,
	// но об этом обязательно остаётся след в логах
	if err := s.emails.SendOtpEmail(w.Email, w.WorkshopName, code); err != nil {
		log.Printf("[mail][otp] dispatch failed: workshop_id=%d otp_token=%s err=%v", w.ID, otp.OtpToken, err)
	}

	return &LoginResult{NeedOtp: true, OtpToken: otp.OtpToken}, nil
}

// VerifyOtp — попытка списывается до сравнения кода; успех атомарно
// создаёт trusted device и удаляет challenge.
func (s *authService) VerifyOtp(otpToken, code, userAgent, ipAddress string) (*VerifyResult, error) {
	otp, err := s.otps.GetByToken(strings.TrimSpace(otpToken))
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrChallengeInvalid
	}
	if time.Now().After(otp.ExpiresAt) {
		return nil, ErrChallengeInvalid
	}

	// инкремент всегда раньше сравнения; nil значит лимит выбран
	otp, err = s.otps.IncrementAttempts(otp.ID)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrChallengeInvalid
	}

	switch s.otpEngine.Verify(otp, code, time.Now()) {
	case VerifyStatusSuccess:
		// проваливаемся ниже
	case VerifyStatusIncorrectCode:
		return nil, ErrCodeIncorrect
	default:
		return nil, ErrChallengeInvalid
	}

	rawToken, err := utils.NewDeviceToken(deviceCookieTokenBytes)
	if err != nil {
		return nil, err
	}
	device := &models.TrustedDevice{
		WorkshopID:      otp.WorkshopID,
		DeviceTokenHash: utils.HashToken(rawToken),
		UserAgent:       userAgent,
		IPAddress:       ipAddress,
	}
	// одна транзакция: устройство появляется, challenge исчезает
	if err := s.otps.ConsumeWithDevice(otp.ID, device); err != nil {
		return nil, err
	}

	w, err := s.workshops.GetByID(otp.WorkshopID)
	if err != nil || w == nil {
		return nil, fmt.Errorf("workshop %d lookup after verify: %v", otp.WorkshopID, err)
	}

	token, err := s.tokens.Issue(w.ID)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{
		Token:        token,
		WorkshopName: w.WorkshopName,
		Subdomain:    w.Subdomain,
		DeviceToken:  rawToken,
	}, nil
}

func (s *authService) Me(workshopID int64) (*models.Workshop, error) {
	return s.workshops.GetByID(workshopID)
}

func (s *authService) ListDevices(workshopID int64) ([]*models.TrustedDevice, error) {
	return s.devices.ListByWorkshop(workshopID)
}

func (s *authService) RevokeDevice(workshopID, deviceID int64) (bool, error) {
	return s.devices.Revoke(workshopID, deviceID)
}
