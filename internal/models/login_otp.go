package models

import "time"

// LoginOtp — одна запись на каждый логин без доверенного устройства.
// Храним только sha256-хэш кода (CodeHash); сырой код уходит в письмо и нигде
// не сохраняется.
type LoginOtp struct {
	ID          int64     `json:"id"`
	WorkshopID  int64     `json:"workshop_id"`
	CodeHash    string    `json:"-"`
	OtpToken    string    `json:"otp_token"` // opaque correlation id, отдаётся клиенту вместо workshop_id
	ExpiresAt   time.Time `json:"expires_at"`
	Attempts    int       `json:"attempts"`
	MaxAttempts int       `json:"max_attempts"`
	CreatedAt   time.Time `json:"created_at"`
}
