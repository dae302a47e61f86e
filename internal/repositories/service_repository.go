package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"autoclient/internal/models"
)

type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(db *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

const serviceDetailColumns = `
	s.id, s.vehicle_id, s.worker_id, s.entry_date, s.exit_date,
	s.service_type, COALESCE(s.description,''), s.mileage_at_service,
	s.next_service_date, COALESCE(s.next_service_mileage_target,''),
	s.cost, COALESCE(s.mechanic_notes,''), COALESCE(s.created_by,''), s.created_at,
	v.plate_number, v.brand, v.model, v.year,
	c.name, COALESCE(c.email,''), c.id,
	COALESCE(w.name,'')
`

const serviceDetailFrom = `
	FROM services s
	JOIN vehicles v ON v.id = s.vehicle_id
	JOIN clients c ON c.id = v.client_id
	LEFT JOIN workers w ON w.id = s.worker_id
`

func scanServiceDetail(row interface{ Scan(...interface{}) error }) (*models.ServiceDetail, error) {
	var d models.ServiceDetail
	var (
		workerID   sql.NullInt64
		exitDate   sql.NullTime
		nextDate   sql.NullTime
		cost       sql.NullFloat64
	)
	if err := row.Scan(
		&d.ID, &d.VehicleID, &workerID, &d.Date, &exitDate,
		&d.ServiceType, &d.Description, &d.MileageAtService,
		&nextDate, &d.NextServiceMileageTarget,
		&cost, &d.MechanicNotes, &d.CreatedBy, &d.CreatedAt,
		&d.PlateNumber, &d.Brand, &d.Model, &d.Year,
		&d.ClientName, &d.ClientEmail, &d.ClientID,
		&d.WorkerName,
	); err != nil {
		return nil, err
	}
	if workerID.Valid {
		id := workerID.Int64
		d.WorkerID = &id
	}
	if exitDate.Valid {
		t := exitDate.Time
		d.ExitDate = &t
	}
	if nextDate.Valid {
		t := nextDate.Time
		d.NextServiceDate = &t
	}
	if cost.Valid {
		c := cost.Float64
		d.Cost = &c
	}
	return &d, nil
}

func (r *ServiceRepository) Create(s *models.ServiceRecord) error {
	const q = `
		INSERT INTO services (vehicle_id, worker_id, entry_date, service_type, description,
			mileage_at_service, mechanic_notes, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
		RETURNING id, created_at
	`
	var workerID interface{}
	if s.WorkerID != nil {
		workerID = *s.WorkerID
	}
	if err := r.DB.QueryRow(q,
		s.VehicleID, workerID, s.Date, s.ServiceType, s.Description,
		s.MileageAtService, s.MechanicNotes, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("service create: %w", err)
	}
	return nil
}

func (r *ServiceRepository) GetByID(workshopID, id int64) (*models.ServiceDetail, error) {
	q := `SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE s.id = $1 AND c.workshop_id = $2`
	d, err := scanServiceDetail(r.DB.QueryRow(q, id, workshopID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("service get: %w", err)
	}
	return d, nil
}

func (r *ServiceRepository) ListByWorkshop(workshopID int64) ([]*models.ServiceDetail, error) {
	q := `SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE c.workshop_id = $1
		ORDER BY s.entry_date DESC`
	return r.queryDetails(q, workshopID)
}

func (r *ServiceRepository) ListByVehicle(workshopID, vehicleID int64) ([]*models.ServiceDetail, error) {
	q := `SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE s.vehicle_id = $1 AND c.workshop_id = $2
		ORDER BY s.entry_date DESC`
	return r.queryDetails(q, vehicleID, workshopID)
}

// ListUpcoming — сервисы с next_service_date в интервале [from, to].
func (r *ServiceRepository) ListUpcoming(workshopID int64, from, to time.Time) ([]*models.ServiceDetail, error) {
	q := `SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE c.workshop_id = $1
		  AND s.next_service_date IS NOT NULL
		  AND s.next_service_date::date >= $2::date
		  AND s.next_service_date::date <= $3::date
		ORDER BY s.next_service_date`
	return r.queryDetails(q, workshopID, from, to)
}

// ListByIDs — для bulk-рассылок.
func (r *ServiceRepository) ListByIDs(workshopID int64, ids []int64) ([]*models.ServiceDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE c.workshop_id = $1 AND s.id = ANY($2)`
	return r.queryDetails(q, workshopID, pq.Array(ids))
}

func (r *ServiceRepository) queryDetails(q string, args ...interface{}) ([]*models.ServiceDetail, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("service list: %w", err)
	}
	defer rows.Close()

	var res []*models.ServiceDetail
	for rows.Next() {
		d, err := scanServiceDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("service scan: %w", err)
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (r *ServiceRepository) Update(s *models.ServiceRecord) error {
	const q = `
		UPDATE services
		SET worker_id=$1, entry_date=$2, exit_date=$3, service_type=$4, description=$5,
			mileage_at_service=$6, next_service_date=$7, next_service_mileage_target=$8,
			cost=$9, mechanic_notes=$10, created_by=$11
		WHERE id=$12
	`
	var (
		workerID interface{}
		exitDate interface{}
		nextDate interface{}
		cost     interface{}
	)
	if s.WorkerID != nil {
		workerID = *s.WorkerID
	}
	if s.ExitDate != nil {
		exitDate = *s.ExitDate
	}
	if s.NextServiceDate != nil {
		nextDate = *s.NextServiceDate
	}
	if s.Cost != nil {
		cost = *s.Cost
	}
	if _, err := r.DB.Exec(q,
		workerID, s.Date, exitDate, s.ServiceType, s.Description,
		s.MileageAtService, nextDate, s.NextServiceMileageTarget,
		cost, s.MechanicNotes, s.CreatedBy, s.ID,
	); err != nil {
		return fmt.Errorf("service update: %w", err)
	}
	return nil
}

func (r *ServiceRepository) UpdateNotes(id int64, notes string) error {
	if _, err := r.DB.Exec(`UPDATE services SET mechanic_notes=$1 WHERE id=$2`, notes, id); err != nil {
		return fmt.Errorf("service update notes: %w", err)
	}
	return nil
}
