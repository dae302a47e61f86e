package services

import (
	"errors"
	"fmt"
	"strings"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

var ErrPlateTaken = errors.New("plate number already registered")

type VehicleService struct {
	repo    *repositories.VehicleRepository
	clients *repositories.ClientRepository
}

func NewVehicleService(repo *repositories.VehicleRepository, clients *repositories.ClientRepository) *VehicleService {
	return &VehicleService{repo: repo, clients: clients}
}

func (s *VehicleService) Create(workshopID int64, v *models.Vehicle) error {
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	if v.PlateNumber == "" {
		return fmt.Errorf("plate number is required")
	}

	// клиент должен принадлежать этой же мастерской
	owner, err := s.clients.GetByID(workshopID, v.ClientID)
	if err != nil {
		return err
	}
	if owner == nil {
		return fmt.Errorf("client %d not found", v.ClientID)
	}

	existing, err := s.repo.GetByPlate(workshopID, v.PlateNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPlateTaken
	}
	return s.repo.Create(v)
}

func (s *VehicleService) GetByID(workshopID, id int64) (*models.Vehicle, error) {
	return s.repo.GetByID(workshopID, id)
}

func (s *VehicleService) GetByPlate(workshopID int64, plate string) (*models.Vehicle, error) {
	return s.repo.GetByPlate(workshopID, strings.TrimSpace(plate))
}

func (s *VehicleService) List(workshopID int64, search string) ([]*models.Vehicle, error) {
	return s.repo.List(workshopID, strings.TrimSpace(search))
}

func (s *VehicleService) ListByClient(workshopID, clientID int64) ([]*models.Vehicle, error) {
	owner, err := s.clients.GetByID(workshopID, clientID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("client %d not found", clientID)
	}
	return s.repo.ListByClient(clientID)
}

func (s *VehicleService) Update(workshopID int64, v *models.Vehicle) error {
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	existing, err := s.repo.GetByPlate(workshopID, v.PlateNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != v.ID {
		return ErrPlateTaken
	}
	return s.repo.Update(workshopID, v)
}

func (s *VehicleService) Delete(workshopID, id int64) error {
	return s.repo.Delete(workshopID, id)
}
