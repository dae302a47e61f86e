package services

import (
	"fmt"
	"strings"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

type WorkerService struct {
	repo *repositories.WorkerRepository
}

func NewWorkerService(repo *repositories.WorkerRepository) *WorkerService {
	return &WorkerService{repo: repo}
}

func (s *WorkerService) Create(w *models.Worker) error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return fmt.Errorf("worker name is required")
	}
	return s.repo.Create(w)
}

func (s *WorkerService) GetByID(workshopID, id int64) (*models.Worker, error) {
	return s.repo.GetByID(workshopID, id)
}

func (s *WorkerService) List(workshopID int64) ([]*models.Worker, error) {
	return s.repo.List(workshopID)
}

// Overview — профиль механика плюс число закрытых им сервисов.
func (s *WorkerService) Overview(workshopID, id int64) (*models.WorkerOverview, error) {
	w, err := s.repo.GetByID(workshopID, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}
	n, err := s.repo.CountCompletedServices(workshopID, id)
	if err != nil {
		return nil, err
	}
	return &models.WorkerOverview{Worker: *w, CompletedServices: n}, nil
}

func (s *WorkerService) Update(w *models.Worker) error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("worker name is required")
	}
	return s.repo.Update(w)
}

func (s *WorkerService) Delete(workshopID, id int64) (bool, error) {
	return s.repo.Delete(workshopID, id)
}
