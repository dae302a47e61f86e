package models

import "time"

// Workshop — арендатор (tenant). Все бизнес-сущности принадлежат мастерской.
type Workshop struct {
	ID           int64     `json:"id"`
	WorkshopName string    `json:"workshop_name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Subdomain    string    `json:"subdomain"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterRequest struct {
	WorkshopName string `json:"workshop_name" binding:"required"`
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Phone        string `json:"phone"`
	Subdomain    string `json:"subdomain" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyOtpRequest struct {
	OtpToken string `json:"otpToken" binding:"required"`
	Code     string `json:"code" binding:"required"`
}
