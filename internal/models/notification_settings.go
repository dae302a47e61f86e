package models

import "time"

// NotificationSettings — автоматизация писем на мастерскую.
type NotificationSettings struct {
	ID                       int64     `json:"-"`
	WorkshopID               int64     `json:"-"`
	VehicleDeliveredEnabled  bool      `json:"vehicle_delivered_enabled"`
	VehicleDeliveredTemplate string    `json:"vehicle_delivered_template"`
	OnlyIfEmailExists        bool      `json:"only_if_email_exists"`
	CreatedAt                time.Time `json:"-"`
	UpdatedAt                time.Time `json:"-"`
}

func DefaultNotificationSettings(workshopID int64) *NotificationSettings {
	return &NotificationSettings{
		WorkshopID:               workshopID,
		VehicleDeliveredEnabled:  false,
		VehicleDeliveredTemplate: "CarReady",
		OnlyIfEmailExists:        true,
	}
}
