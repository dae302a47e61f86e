package models

import "time"

type Vehicle struct {
	ID                    int64     `json:"id"`
	ClientID              int64     `json:"client_id"`
	PlateNumber           string    `json:"plate_number"`
	Brand                 string    `json:"brand"`
	Model                 string    `json:"model"`
	Year                  int       `json:"year"`
	Color                 string    `json:"color"`
	VIN                   string    `json:"vin"`
	MileageAtRegistration *int      `json:"mileage_at_registration,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}
