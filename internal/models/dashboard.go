package models

import "time"

// DashboardSummary — сводка по мастерской за период.
type DashboardSummary struct {
	From                  time.Time          `json:"from"`
	To                    time.Time          `json:"to"`
	CompletedCount        int                `json:"completed_count"`
	PendingCount          int                `json:"pending_count"`
	InProgressCount       int                `json:"in_progress_count"`
	OverdueCount          int                `json:"overdue_count"`
	TotalRevenue          float64            `json:"total_revenue"`
	AverageTicketValue    float64            `json:"average_ticket_value"`
	AverageDaysToComplete float64            `json:"average_days_to_complete"`
	TopWorkerName         string             `json:"top_worker_name,omitempty"`
	TopWorkerServiceCount int                `json:"top_worker_service_count"`
	TopServices           []ServiceTypeCount `json:"top_services"`
	NextActions           []NextAction       `json:"next_actions"`
}

type ServiceTypeCount struct {
	ServiceType string `json:"service_type"`
	Count       int    `json:"count"`
}

// NextAction — открытый сервис, требующий внимания.
type NextAction struct {
	ServiceID    int64      `json:"service_id"`
	PlateNumber  string     `json:"plate_number"`
	ClientName   string     `json:"client_name"`
	ServiceName  string     `json:"service_name"`
	Status       string     `json:"status"`
	DaysOpen     int        `json:"days_open"`
	EntryDate    time.Time  `json:"entry_date"`
	ExitDate     *time.Time `json:"exit_date,omitempty"`
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
}

type ClientServiceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
