package services

import (
	"fmt"
	"strings"
	"time"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

// CompleteServiceRequest — закрытие сервиса при выдаче автомобиля.
type CompleteServiceRequest struct {
	ExitDate                 *time.Time `json:"exit_date"`
	Cost                     *float64   `json:"cost"`
	NextServiceDate          *time.Time `json:"next_service_date"`
	NextServiceMileageTarget string     `json:"next_service_mileage_target"`
	FinalObservations        string     `json:"final_observations"`
	VehicleState             string     `json:"vehicle_state"`
	DeliveredBy              string     `json:"delivered_by"`
}

type ServiceRecordService struct {
	repo          *repositories.ServiceRepository
	vehicles      *repositories.VehicleRepository
	workers       *repositories.WorkerRepository
	notifications *NotificationService
}

func NewServiceRecordService(
	repo *repositories.ServiceRepository,
	vehicles *repositories.VehicleRepository,
	workers *repositories.WorkerRepository,
	notifications *NotificationService,
) *ServiceRecordService {
	return &ServiceRecordService{
		repo:          repo,
		vehicles:      vehicles,
		workers:       workers,
		notifications: notifications,
	}
}

func (s *ServiceRecordService) Create(workshopID int64, rec *models.ServiceRecord) error {
	rec.ServiceType = strings.TrimSpace(rec.ServiceType)
	if rec.ServiceType == "" {
		return fmt.Errorf("service type is required")
	}

	v, err := s.vehicles.GetByID(workshopID, rec.VehicleID)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("vehicle %d not found", rec.VehicleID)
	}
	if rec.WorkerID != nil {
		w, err := s.workers.GetByID(workshopID, *rec.WorkerID)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("worker %d not found", *rec.WorkerID)
		}
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	return s.repo.Create(rec)
}

func (s *ServiceRecordService) GetByID(workshopID, id int64) (*models.ServiceDetail, error) {
	return s.repo.GetByID(workshopID, id)
}

func (s *ServiceRecordService) List(workshopID int64) ([]*models.ServiceDetail, error) {
	return s.repo.ListByWorkshop(workshopID)
}

func (s *ServiceRecordService) ListByVehicle(workshopID, vehicleID int64) ([]*models.ServiceDetail, error) {
	v, err := s.vehicles.GetByID(workshopID, vehicleID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("vehicle %d not found", vehicleID)
	}
	return s.repo.ListByVehicle(workshopID, vehicleID)
}

// Complete закрывает сервис и, если у мастерской включена автоматизация,
// асинхронно шлёт письмо "Auto listo". Закрытие не ждёт письма.
func (s *ServiceRecordService) Complete(workshopID, id int64, req CompleteServiceRequest) (*models.ServiceDetail, error) {
	detail, err := s.repo.GetByID(workshopID, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrServiceNotFound
	}

	rec := &detail.ServiceRecord
	rec.NextServiceDate = req.NextServiceDate
	rec.NextServiceMileageTarget = strings.TrimSpace(req.NextServiceMileageTarget)
	if rec.NextServiceMileageTarget == "" {
		rec.NextServiceMileageTarget = "-"
	}
	rec.Cost = req.Cost

	if obs := strings.TrimSpace(req.FinalObservations); obs != "" {
		if rec.MechanicNotes == "" {
			rec.MechanicNotes = "Final Notes: " + obs
		} else {
			rec.MechanicNotes += "\nFinal Notes: " + obs
		}
	}
	if state := strings.TrimSpace(req.VehicleState); state != "" {
		if rec.Description == "" {
			rec.Description = "Estado Final: " + state
		} else {
			rec.Description += "\nEstado Final: " + state
		}
	}
	if req.DeliveredBy != "" {
		rec.CreatedBy = req.DeliveredBy
	}

	exit := time.Now().UTC()
	if req.ExitDate != nil {
		exit = *req.ExitDate
	}
	rec.ExitDate = &exit

	if err := s.repo.Update(rec); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go s.notifications.NotifyVehicleDelivered(workshopID, id)
	}
	return detail, nil
}

func (s *ServiceRecordService) Update(workshopID int64, rec *models.ServiceRecord) error {
	existing, err := s.repo.GetByID(workshopID, rec.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrServiceNotFound
	}
	return s.repo.Update(rec)
}

func (s *ServiceRecordService) UpdateNotes(workshopID, id int64, notes string) error {
	existing, err := s.repo.GetByID(workshopID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrServiceNotFound
	}
	return s.repo.UpdateNotes(id, notes)
}
