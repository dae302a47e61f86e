package models

import "time"

// EmailLog — журнал исходящих писем клиентам (и пропусков).
type EmailLog struct {
	ID           int64     `json:"id"`
	WorkshopID   int64     `json:"workshop_id"`
	ClientID     int64     `json:"client_id"`
	Email        string    `json:"email"`
	TemplateType string    `json:"template_type"`
	SentAt       time.Time `json:"sent_at"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

// Статус в выдаче: Successful / Failed / Skipped (по маркеру в ErrorMessage).
const EmailLogSkippedMarker = "Omitido"
