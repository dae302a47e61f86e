package models

import "time"

// Client represents a workshop customer.
type Client struct {
	ID         int64     `json:"id"`
	WorkshopID int64     `json:"workshop_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}
