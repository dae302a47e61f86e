package services

import (
	"math"
	"time"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

// TodaySummary — закрытые за сегодня плюс вся очередь открытых.
type TodaySummary struct {
	TotalClosedToday  int                    `json:"total_closed_today"`
	TotalRevenueToday float64                `json:"total_revenue_today"`
	PendingServices   []*models.ServiceDetail `json:"pending_services"`
}

type DashboardService struct {
	repo *repositories.DashboardRepository
}

func NewDashboardService(repo *repositories.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) Summary(workshopID int64, from, to time.Time, workerID *int64) (*models.DashboardSummary, error) {
	return s.repo.Summary(workshopID, from, to, workerID)
}

func (s *DashboardService) TodaySummary(workshopID int64) (*TodaySummary, error) {
	count, revenue, err := s.repo.TodayClosed(workshopID)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.PendingServices(workshopID)
	if err != nil {
		return nil, err
	}
	return &TodaySummary{
		TotalClosedToday:  count,
		TotalRevenueToday: revenue,
		PendingServices:   pending,
	}, nil
}

func (s *DashboardService) TopClients(workshopID int64, month, year int) ([]models.ClientServiceCount, error) {
	return s.repo.TopClients(workshopID, month, year)
}

func (s *DashboardService) TopServices(workshopID int64, month, year int) ([]models.ServiceTypeCount, error) {
	return s.repo.TopServiceTypes(workshopID, month, year)
}

func (s *DashboardService) ServicesPerDay(workshopID int64, from, to time.Time) ([]models.DayCount, error) {
	return s.repo.ServicesPerDay(workshopID, from, to)
}

func (s *DashboardService) AverageDeliveryHours(workshopID int64) (float64, error) {
	hours, err := s.repo.AverageDeliveryHours(workshopID)
	if err != nil {
		return 0, err
	}
	return math.Round(hours*100) / 100, nil
}

func (s *DashboardService) MonthlyIncome(workshopID int64, month, year int) (float64, error) {
	return s.repo.MonthlyIncome(workshopID, month, year)
}

func (s *DashboardService) PendingServices(workshopID int64) ([]*models.ServiceDetail, error) {
	return s.repo.PendingServices(workshopID)
}
