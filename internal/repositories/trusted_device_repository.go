package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type TrustedDeviceRepository interface {
	// FindActiveByHash — поиск строго по хэшу токена и только среди
	// неотозванных устройств мастерской.
	FindActiveByHash(workshopID int64, tokenHash string) (*models.TrustedDevice, error)
	TouchLastUsed(id int64) error
	ListByWorkshop(workshopID int64) ([]*models.TrustedDevice, error)
	Revoke(workshopID, deviceID int64) (bool, error)
}

type trustedDeviceRepository struct {
	DB *sql.DB
}

func NewTrustedDeviceRepository(db *sql.DB) TrustedDeviceRepository {
	return &trustedDeviceRepository{DB: db}
}

func (r *trustedDeviceRepository) FindActiveByHash(workshopID int64, tokenHash string) (*models.TrustedDevice, error) {
	const q = `
		SELECT id, workshop_id, device_token_hash, COALESCE(user_agent,''), COALESCE(ip_address,''), created_at, last_used_at, is_revoked
		FROM trusted_devices
		WHERE workshop_id = $1 AND device_token_hash = $2 AND is_revoked = FALSE
		LIMIT 1
	`
	var d models.TrustedDevice
	err := r.DB.QueryRow(q, workshopID, tokenHash).Scan(
		&d.ID, &d.WorkshopID, &d.DeviceTokenHash, &d.UserAgent, &d.IPAddress,
		&d.CreatedAt, &d.LastUsedAt, &d.IsRevoked,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("trusted_device find by hash: %w", err)
	}
	return &d, nil
}

func (r *trustedDeviceRepository) TouchLastUsed(id int64) error {
	if _, err := r.DB.Exec(`UPDATE trusted_devices SET last_used_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("trusted_device touch: %w", err)
	}
	return nil
}

func (r *trustedDeviceRepository) ListByWorkshop(workshopID int64) ([]*models.TrustedDevice, error) {
	const q = `
		SELECT id, workshop_id, device_token_hash, COALESCE(user_agent,''), COALESCE(ip_address,''), created_at, last_used_at, is_revoked
		FROM trusted_devices
		WHERE workshop_id = $1
		ORDER BY last_used_at DESC
	`
	rows, err := r.DB.Query(q, workshopID)
	if err != nil {
		return nil, fmt.Errorf("trusted_device list: %w", err)
	}
	defer rows.Close()

	var res []*models.TrustedDevice
	for rows.Next() {
		var d models.TrustedDevice
		if err := rows.Scan(
			&d.ID, &d.WorkshopID, &d.DeviceTokenHash, &d.UserAgent, &d.IPAddress,
			&d.CreatedAt, &d.LastUsedAt, &d.IsRevoked,
		); err != nil {
			return nil, fmt.Errorf("trusted_device scan: %w", err)
		}
		res = append(res, &d)
	}
	return res, rows.Err()
}

func (r *trustedDeviceRepository) Revoke(workshopID, deviceID int64) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE trusted_devices
		SET is_revoked = TRUE
		WHERE id = $1 AND workshop_id = $2
	`, deviceID, workshopID)
	if err != nil {
		return false, fmt.Errorf("trusted_device revoke: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
