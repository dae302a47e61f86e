package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(c *models.Client) error {
	const q = `
		INSERT INTO clients (workshop_id, name, phone, email, address, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, c.WorkshopID, c.Name, c.Phone, c.Email, c.Address).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("client create: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(workshopID, id int64) (*models.Client, error) {
	const q = `
		SELECT id, workshop_id, name, COALESCE(phone,''), COALESCE(email,''), COALESCE(address,''), created_at
		FROM clients
		WHERE id = $1 AND workshop_id = $2
	`
	var c models.Client
	err := r.DB.QueryRow(q, id, workshopID).Scan(
		&c.ID, &c.WorkshopID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("client get: %w", err)
	}
	return &c, nil
}

// List — выборка по мастерской, search опционально (имя/телефон/email).
func (r *ClientRepository) List(workshopID int64, search string) ([]*models.Client, error) {
	const q = `
		SELECT id, workshop_id, name, COALESCE(phone,''), COALESCE(email,''), COALESCE(address,''), created_at
		FROM clients
		WHERE workshop_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR phone ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY name
	`
	rows, err := r.DB.Query(q, workshopID, search)
	if err != nil {
		return nil, fmt.Errorf("client list: %w", err)
	}
	defer rows.Close()

	var res []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.WorkshopID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("client scan: %w", err)
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *ClientRepository) Update(c *models.Client) error {
	const q = `
		UPDATE clients
		SET name=$1, phone=$2, email=$3, address=$4
		WHERE id=$5 AND workshop_id=$6
	`
	if _, err := r.DB.Exec(q, c.Name, c.Phone, c.Email, c.Address, c.ID, c.WorkshopID); err != nil {
		return fmt.Errorf("client update: %w", err)
	}
	return nil
}

func (r *ClientRepository) Delete(workshopID, id int64) error {
	if _, err := r.DB.Exec(`DELETE FROM clients WHERE id=$1 AND workshop_id=$2`, id, workshopID); err != nil {
		return fmt.Errorf("client delete: %w", err)
	}
	return nil
}

func (r *ClientRepository) CountVehicles(clientID int64) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM vehicles WHERE client_id = $1`, clientID).Scan(&c); err != nil {
		return 0, fmt.Errorf("client count vehicles: %w", err)
	}
	return c, nil
}
