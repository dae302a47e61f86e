package models

import "time"

// ServiceType — справочник типов работ в рамках мастерской.
type ServiceType struct {
	ID         int64     `json:"id"`
	WorkshopID int64     `json:"workshop_id"`
	Name       string    `json:"service_type_name"`
	CreatedAt  time.Time `json:"created_at"`
}
