package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type ServiceTypeRepository struct {
	DB *sql.DB
}

func NewServiceTypeRepository(db *sql.DB) *ServiceTypeRepository {
	return &ServiceTypeRepository{DB: db}
}

func (r *ServiceTypeRepository) List(workshopID int64) ([]*models.ServiceType, error) {
	const q = `
		SELECT id, workshop_id, service_type_name, created_at
		FROM service_types
		WHERE workshop_id = $1
		ORDER BY service_type_name
	`
	rows, err := r.DB.Query(q, workshopID)
	if err != nil {
		return nil, fmt.Errorf("service_type list: %w", err)
	}
	defer rows.Close()

	var res []*models.ServiceType
	for rows.Next() {
		var st models.ServiceType
		if err := rows.Scan(&st.ID, &st.WorkshopID, &st.Name, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("service_type scan: %w", err)
		}
		res = append(res, &st)
	}
	return res, rows.Err()
}

func (r *ServiceTypeRepository) Exists(workshopID int64, name string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM service_types WHERE workshop_id=$1 AND service_type_name=$2)`,
		workshopID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("service_type exists: %w", err)
	}
	return exists, nil
}

func (r *ServiceTypeRepository) Create(st *models.ServiceType) error {
	const q = `
		INSERT INTO service_types (workshop_id, service_type_name, created_at)
		VALUES ($1,$2,NOW())
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, st.WorkshopID, st.Name).Scan(&st.ID, &st.CreatedAt); err != nil {
		return fmt.Errorf("service_type create: %w", err)
	}
	return nil
}

func (r *ServiceTypeRepository) Delete(workshopID, id int64) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM service_types WHERE id=$1 AND workshop_id=$2`, id, workshopID)
	if err != nil {
		return false, fmt.Errorf("service_type delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
