package repositories

import (
	"database/sql"

	"autoclient/internal/models"
)

type WorkshopRepository interface {
	Create(w *models.Workshop) error
	GetByID(id int64) (*models.Workshop, error)
	GetByUsername(username string) (*models.Workshop, error)
	ExistsByUsernameOrSubdomain(username, subdomain string) (bool, error)
}

type workshopRepository struct {
	DB *sql.DB
}

func NewWorkshopRepository(db *sql.DB) WorkshopRepository {
	return &workshopRepository{DB: db}
}

func (r *workshopRepository) Create(w *models.Workshop) error {
	const q = `
		INSERT INTO workshops (workshop_name, username, email, phone, subdomain, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		w.WorkshopName,
		w.Username,
		w.Email,
		w.Phone,
		w.Subdomain,
		w.PasswordHash,
	).Scan(&w.ID, &w.CreatedAt)
}

func (r *workshopRepository) GetByID(id int64) (*models.Workshop, error) {
	const q = `
		SELECT id, workshop_name, username, email, COALESCE(phone,''), COALESCE(subdomain,''), password_hash, created_at
		FROM workshops
		WHERE id = $1
	`
	w := &models.Workshop{}
	err := r.DB.QueryRow(q, id).Scan(
		&w.ID, &w.WorkshopName, &w.Username, &w.Email, &w.Phone, &w.Subdomain, &w.PasswordHash, &w.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

func (r *workshopRepository) GetByUsername(username string) (*models.Workshop, error) {
	const q = `
		SELECT id, workshop_name, username, email, COALESCE(phone,''), COALESCE(subdomain,''), password_hash, created_at
		FROM workshops
		WHERE username = $1
	`
	w := &models.Workshop{}
	err := r.DB.QueryRow(q, username).Scan(
		&w.ID, &w.WorkshopName, &w.Username, &w.Email, &w.Phone, &w.Subdomain, &w.PasswordHash, &w.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

func (r *workshopRepository) ExistsByUsernameOrSubdomain(username, subdomain string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM workshops WHERE username = $1 OR subdomain = $2)`
	var exists bool
	if err := r.DB.QueryRow(q, username, subdomain).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
