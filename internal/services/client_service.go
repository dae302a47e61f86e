package services

import (
	"errors"
	"fmt"
	"strings"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

var ErrClientHasVehicles = errors.New("client has registered vehicles")

type ClientService struct {
	repo *repositories.ClientRepository
}

func NewClientService(repo *repositories.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

func (s *ClientService) Create(c *models.Client) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("client name is required")
	}
	return s.repo.Create(c)
}

func (s *ClientService) GetByID(workshopID, id int64) (*models.Client, error) {
	return s.repo.GetByID(workshopID, id)
}

func (s *ClientService) List(workshopID int64, search string) ([]*models.Client, error) {
	return s.repo.List(workshopID, strings.TrimSpace(search))
}

func (s *ClientService) Update(c *models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	return s.repo.Update(c)
}

// Delete запрещён, пока за клиентом числятся автомобили.
func (s *ClientService) Delete(workshopID, id int64) error {
	n, err := s.repo.CountVehicles(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrClientHasVehicles
	}
	return s.repo.Delete(workshopID, id)
}
