package repositories

import (
	"database/sql"
	"fmt"

	"autoclient/internal/models"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: db}
}

const vehicleColumns = `
	v.id, v.client_id, v.plate_number, v.brand, v.model, v.year,
	COALESCE(v.color,''), COALESCE(v.vin,''), v.mileage_at_registration, v.created_at
`

func scanVehicle(row interface{ Scan(...interface{}) error }) (*models.Vehicle, error) {
	var v models.Vehicle
	var mileage sql.NullInt64
	if err := row.Scan(
		&v.ID, &v.ClientID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year,
		&v.Color, &v.VIN, &mileage, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	if mileage.Valid {
		m := int(mileage.Int64)
		v.MileageAtRegistration = &m
	}
	return &v, nil
}

func (r *VehicleRepository) Create(v *models.Vehicle) error {
	const q = `
		INSERT INTO vehicles (client_id, plate_number, brand, model, year, color, vin, mileage_at_registration, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
		RETURNING id, created_at
	`
	var mileage interface{}
	if v.MileageAtRegistration != nil {
		mileage = *v.MileageAtRegistration
	}
	if err := r.DB.QueryRow(q,
		v.ClientID, v.PlateNumber, v.Brand, v.Model, v.Year, v.Color, v.VIN, mileage,
	).Scan(&v.ID, &v.CreatedAt); err != nil {
		return fmt.Errorf("vehicle create: %w", err)
	}
	return nil
}

// GetByID — скоуп мастерской идёт через владельца-клиента.
func (r *VehicleRepository) GetByID(workshopID, id int64) (*models.Vehicle, error) {
	q := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN clients c ON c.id = v.client_id
		WHERE v.id = $1 AND c.workshop_id = $2
	`
	v, err := scanVehicle(r.DB.QueryRow(q, id, workshopID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("vehicle get: %w", err)
	}
	return v, nil
}

func (r *VehicleRepository) GetByPlate(workshopID int64, plate string) (*models.Vehicle, error) {
	q := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN clients c ON c.id = v.client_id
		WHERE LOWER(v.plate_number) = LOWER($1) AND c.workshop_id = $2
		LIMIT 1
	`
	v, err := scanVehicle(r.DB.QueryRow(q, plate, workshopID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("vehicle get by plate: %w", err)
	}
	return v, nil
}

func (r *VehicleRepository) List(workshopID int64, search string) ([]*models.Vehicle, error) {
	q := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN clients c ON c.id = v.client_id
		WHERE c.workshop_id = $1
		  AND ($2 = '' OR v.plate_number ILIKE '%' || $2 || '%' OR v.brand ILIKE '%' || $2 || '%' OR v.model ILIKE '%' || $2 || '%')
		ORDER BY v.created_at DESC
	`
	return r.queryVehicles(q, workshopID, search)
}

func (r *VehicleRepository) ListByClient(clientID int64) ([]*models.Vehicle, error) {
	q := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		WHERE v.client_id = $1
		ORDER BY v.created_at DESC
	`
	return r.queryVehicles(q, clientID)
}

func (r *VehicleRepository) queryVehicles(q string, args ...interface{}) ([]*models.Vehicle, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("vehicle list: %w", err)
	}
	defer rows.Close()

	var res []*models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("vehicle scan: %w", err)
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r *VehicleRepository) Update(workshopID int64, v *models.Vehicle) error {
	const q = `
		UPDATE vehicles SET brand=$1, model=$2, year=$3, color=$4, vin=$5, mileage_at_registration=$6
		WHERE id = $7 AND client_id IN (SELECT id FROM clients WHERE workshop_id = $8)
	`
	var mileage interface{}
	if v.MileageAtRegistration != nil {
		mileage = *v.MileageAtRegistration
	}
	if _, err := r.DB.Exec(q, v.Brand, v.Model, v.Year, v.Color, v.VIN, mileage, v.ID, workshopID); err != nil {
		return fmt.Errorf("vehicle update: %w", err)
	}
	return nil
}

func (r *VehicleRepository) Delete(workshopID, id int64) error {
	const q = `
		DELETE FROM vehicles
		WHERE id = $1 AND client_id IN (SELECT id FROM clients WHERE workshop_id = $2)
	`
	if _, err := r.DB.Exec(q, id, workshopID); err != nil {
		return fmt.Errorf("vehicle delete: %w", err)
	}
	return nil
}
