package models

import "time"

// TrustedDevice — устройство, прошедшее OTP. Токен живёт в HttpOnly cookie,
// в БД только его sha256-хэш.
type TrustedDevice struct {
	ID              int64     `json:"id"`
	WorkshopID      int64     `json:"workshop_id"`
	DeviceTokenHash string    `json:"-"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address"`
	CreatedAt       time.Time `json:"created_at"`
	LastUsedAt      time.Time `json:"last_used_at"`
	IsRevoked       bool      `json:"is_revoked"`
}
