package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type WorkerRepository struct {
	DB *sql.DB
}

func NewWorkerRepository(db *sql.DB) *WorkerRepository {
	return &WorkerRepository{DB: db}
}

func (r *WorkerRepository) Create(w *models.Worker) error {
	const q = `
		INSERT INTO workers (workshop_id, name, email, phone, role, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, w.WorkshopID, w.Name, w.Email, w.Phone, w.Role).Scan(&w.ID, &w.CreatedAt); err != nil {
		return fmt.Errorf("worker create: %w", err)
	}
	return nil
}

func (r *WorkerRepository) GetByID(workshopID, id int64) (*models.Worker, error) {
	const q = `
		SELECT id, workshop_id, name, COALESCE(email,''), COALESCE(phone,''), COALESCE(role,''), created_at
		FROM workers
		WHERE id = $1 AND workshop_id = $2
	`
	var w models.Worker
	err := r.DB.QueryRow(q, id, workshopID).Scan(
		&w.ID, &w.WorkshopID, &w.Name, &w.Email, &w.Phone, &w.Role, &w.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("worker get: %w", err)
	}
	return &w, nil
}

func (r *WorkerRepository) List(workshopID int64) ([]*models.Worker, error) {
	const q = `
		SELECT id, workshop_id, name, COALESCE(email,''), COALESCE(phone,''), COALESCE(role,''), created_at
		FROM workers
		WHERE workshop_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(q, workshopID)
	if err != nil {
		return nil, fmt.Errorf("worker list: %w", err)
	}
	defer rows.Close()

	var res []*models.Worker
	for rows.Next() {
		var w models.Worker
		if err := rows.Scan(&w.ID, &w.WorkshopID, &w.Name, &w.Email, &w.Phone, &w.Role, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("worker scan: %w", err)
		}
		res = append(res, &w)
	}
	return res, rows.Err()
}

func (r *WorkerRepository) Update(w *models.Worker) error {
	const q = `
		UPDATE workers SET name=$1, email=$2, phone=$3, role=$4
		WHERE id=$5 AND workshop_id=$6
	`
	if _, err := r.DB.Exec(q, w.Name, w.Email, w.Phone, w.Role, w.ID, w.WorkshopID); err != nil {
		return fmt.Errorf("worker update: %w", err)
	}
	return nil
}

func (r *WorkerRepository) Delete(workshopID, id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM workers WHERE id=$1 AND workshop_id=$2`, id, workshopID)
	if err != nil {
		return false, fmt.Errorf("worker delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CountCompletedServices — сколько сервисов закрыл механик за всю историю мастерской.
func (r *WorkerRepository) CountCompletedServices(workshopID, workerID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM services s
		JOIN vehicles v ON v.id = s.vehicle_id
		JOIN clients c ON c.id = v.client_id
		WHERE c.workshop_id = $1 AND s.worker_id = $2 AND s.exit_date IS NOT NULL
	`
	var cnt int
	if err := r.DB.QueryRow(q, workshopID, workerID).Scan(&cnt); err != nil {
		return 0, fmt.Errorf("worker completed count: %w", err)
	}
	return cnt, nil
}
