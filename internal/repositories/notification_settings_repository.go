package repositories

import (
	"database/sql"

	"autoclient/internal/models"
)

// NotificationSettingsRepository — настройки рассылок, одна строка на мастерскую.
type NotificationSettingsRepository struct {
	DB *sql.DB
}

func NewNotificationSettingsRepository(db *sql.DB) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{DB: db}
}

// GetByWorkshop возвращает nil без ошибки, если настроек ещё нет.
func (r *NotificationSettingsRepository) GetByWorkshop(workshopID int64) (*models.NotificationSettings, error) {
	const q = `
		SELECT id, workshop_id, vehicle_delivered_enabled, vehicle_delivered_template, only_if_email_exists, created_at, updated_at
		FROM notification_settings
		WHERE workshop_id = $1
	`
	s := &models.NotificationSettings{}
	err := r.DB.QueryRow(q, workshopID).Scan(
		&s.ID, &s.WorkshopID, &s.VehicleDeliveredEnabled, &s.VehicleDeliveredTemplate, &s.OnlyIfEmailExists, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *NotificationSettingsRepository) Upsert(s *models.NotificationSettings) error {
	const q = `
		INSERT INTO notification_settings (workshop_id, vehicle_delivered_enabled, vehicle_delivered_template, only_if_email_exists, created_at, updated_at)
		VALUES ($1,$2,$3,$4,NOW(),NOW())
		ON CONFLICT (workshop_id) DO UPDATE SET
			vehicle_delivered_enabled  = EXCLUDED.vehicle_delivered_enabled,
			vehicle_delivered_template = EXCLUDED.vehicle_delivered_template,
			only_if_email_exists       = EXCLUDED.only_if_email_exists,
			updated_at                 = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		s.WorkshopID,
		s.VehicleDeliveredEnabled,
		s.VehicleDeliveredTemplate,
		s.OnlyIfEmailExists,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}
