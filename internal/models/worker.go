package models

import "time"

type Worker struct {
	ID         int64     `json:"id"`
	WorkshopID int64     `json:"workshop_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Role       string    `json:"role"` // напр. "Mecánico", "Supervisor"
	CreatedAt  time.Time `json:"created_at"`
}

// WorkerOverview — профиль плюс счётчик закрытых сервисов.
type WorkerOverview struct {
	Worker
	CompletedServices int `json:"completed_services"`
}
