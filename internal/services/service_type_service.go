package services

import (
	"errors"
	"fmt"
	"strings"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

var ErrServiceTypeExists = errors.New("service type already exists")

type ServiceTypeService struct {
	repo *repositories.ServiceTypeRepository
}

func NewServiceTypeService(repo *repositories.ServiceTypeRepository) *ServiceTypeService {
	return &ServiceTypeService{repo: repo}
}

func (s *ServiceTypeService) List(workshopID int64) ([]*models.ServiceType, error) {
	return s.repo.List(workshopID)
}

func (s *ServiceTypeService) Create(workshopID int64, name string) (*models.ServiceType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("service type name is required")
	}
	exists, err := s.repo.Exists(workshopID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrServiceTypeExists
	}
	st := &models.ServiceType{WorkshopID: workshopID, Name: name}
	if err := s.repo.Create(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *ServiceTypeService) Delete(workshopID, id int64) (bool, error) {
	return s.repo.Delete(workshopID, id)
}
