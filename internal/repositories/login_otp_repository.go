package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type LoginOtpRepository interface {
	Create(otp *models.LoginOtp) error
	GetByToken(otpToken string) (*models.LoginOtp, error)
	// IncrementAttempts — +1 попытка. Инкремент защищён условием
	// attempts < max_attempts, так что два параллельных запроса не
	// проскочат лимит: кому не хватило — получит sql.ErrNoRows.
	IncrementAttempts(id int64) (*models.LoginOtp, error)
	// ConsumeWithDevice — успех верификации: вставить trusted device и
	// удалить OTP-запись в одной транзакции. Никаких промежуточных
	// состояний снаружи видно быть не должно.
	ConsumeWithDevice(otpID int64, device *models.TrustedDevice) error
	Delete(id int64) error
}

type loginOtpRepository struct {
	DB *sql.DB
}

func NewLoginOtpRepository(db *sql.DB) LoginOtpRepository {
	return &loginOtpRepository{DB: db}
}

func (r *loginOtpRepository) Create(otp *models.LoginOtp) error {
	const q = `
		INSERT INTO login_otps (workshop_id, code_hash, otp_token, expires_at, attempts, max_attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		otp.WorkshopID, otp.CodeHash, otp.OtpToken, otp.ExpiresAt, otp.Attempts, otp.MaxAttempts,
	).Scan(&otp.ID, &otp.CreatedAt); err != nil {
		return fmt.Errorf("login_otp create: %w", err)
	}
	return nil
}

func (r *loginOtpRepository) GetByToken(otpToken string) (*models.LoginOtp, error) {
	const q = `
		SELECT id, workshop_id, code_hash, otp_token, expires_at, attempts, max_attempts, created_at
		FROM login_otps
		WHERE otp_token = $1
	`
	var otp models.LoginOtp
	err := r.DB.QueryRow(q, otpToken).Scan(
		&otp.ID, &otp.WorkshopID, &otp.CodeHash, &otp.OtpToken,
		&otp.ExpiresAt, &otp.Attempts, &otp.MaxAttempts, &otp.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("login_otp get by token: %w", err)
	}
	return &otp, nil
}

func (r *loginOtpRepository) IncrementAttempts(id int64) (*models.LoginOtp, error) {
	const q = `
		UPDATE login_otps
		SET attempts = attempts + 1
		WHERE id = $1 AND attempts < max_attempts
		RETURNING id, workshop_id, code_hash, otp_token, expires_at, attempts, max_attempts, created_at
	`
	var otp models.LoginOtp
	err := r.DB.QueryRow(q, id).Scan(
		&otp.ID, &otp.WorkshopID, &otp.CodeHash, &otp.OtpToken,
		&otp.ExpiresAt, &otp.Attempts, &otp.MaxAttempts, &otp.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // лимит уже выбран
		}
		return nil, fmt.Errorf("login_otp increment attempts: %w", err)
	}
	return &otp, nil
}

func (r *loginOtpRepository) ConsumeWithDevice(otpID int64, device *models.TrustedDevice) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("login_otp consume: begin: %w", err)
	}
	defer tx.Rollback()

	const insertQ = `
		INSERT INTO trusted_devices (workshop_id, device_token_hash, user_agent, ip_address, created_at, last_used_at, is_revoked)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), FALSE)
		RETURNING id, created_at, last_used_at
	`
	if err := tx.QueryRow(insertQ,
		device.WorkshopID, device.DeviceTokenHash, device.UserAgent, device.IPAddress,
	).Scan(&device.ID, &device.CreatedAt, &device.LastUsedAt); err != nil {
		return fmt.Errorf("login_otp consume: insert device: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM login_otps WHERE id = $1`, otpID)
	if err != nil {
		return fmt.Errorf("login_otp consume: delete otp: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// кто-то успел употребить запись параллельно — откатываемся
		return fmt.Errorf("login_otp consume: delete otp: %w", sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("login_otp consume: commit: %w", err)
	}
	return nil
}

func (r *loginOtpRepository) Delete(id int64) error {
	if _, err := r.DB.Exec(`DELETE FROM login_otps WHERE id = $1`, id); err != nil {
		return fmt.Errorf("login_otp delete: %w", err)
	}
	return nil
}
