package models

import "time"

// ServiceRecord — заезд автомобиля в мастерскую. Пока нет ExitDate — сервис
// открыт; Cost проставляется при закрытии.
type ServiceRecord struct {
	ID                       int64      `json:"id"`
	VehicleID                int64      `json:"vehicle_id"`
	WorkerID                 *int64     `json:"worker_id,omitempty"`
	Date                     time.Time  `json:"entry_date"`
	ExitDate                 *time.Time `json:"exit_date,omitempty"`
	ServiceType              string     `json:"service_type"`
	Description              string     `json:"description"`
	MileageAtService         int        `json:"mileage"`
	NextServiceDate          *time.Time `json:"next_service_date,omitempty"`
	NextServiceMileageTarget string     `json:"next_service_mileage_target"`
	Cost                     *float64   `json:"cost,omitempty"`
	MechanicNotes            string     `json:"mechanic_notes"`
	CreatedBy                string     `json:"created_by"`
	CreatedAt                time.Time  `json:"created_at"`
}

// ServiceDetail — запись вместе с данными машины/клиента/механика для выдачи.
type ServiceDetail struct {
	ServiceRecord
	PlateNumber string `json:"plate_number"`
	Brand       string `json:"brand,omitempty"`
	Model       string `json:"model,omitempty"`
	Year        int    `json:"year,omitempty"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email,omitempty"`
	ClientID    int64  `json:"client_id"`
	WorkerName  string `json:"worker_name,omitempty"`
}
