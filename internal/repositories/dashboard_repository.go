package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"autoclient/internal/models"
)

// DashboardRepository — агрегаты по сервисам мастерской. Все запросы
// скоупятся через vehicles -> clients, как и остальные выборки по сервисам.
type DashboardRepository struct {
	DB *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

const dashboardScope = `
	FROM services s
	JOIN vehicles v ON v.id = s.vehicle_id
	JOIN clients c ON c.id = v.client_id
	WHERE c.workshop_id = $1
`

// Summary считает сводку одним набором запросов. Completed — есть exit_date
// или cost; pending — нет ни того, ни другого. workerID == nil — без фильтра.
func (r *DashboardRepository) Summary(workshopID int64, from, to time.Time, workerID *int64) (*models.DashboardSummary, error) {
	now := time.Now().UTC()
	if to.After(now) {
		to = now
	}

	var workerFilter interface{}
	if workerID != nil {
		workerFilter = *workerID
	}

	out := &models.DashboardSummary{From: from, To: to, TopServices: []models.ServiceTypeCount{}, NextActions: []models.NextAction{}}

	// счётчики + выручка + среднее время закрытия одним проходом
	const countsQ = `
		SELECT
			COUNT(*) FILTER (WHERE (s.exit_date IS NOT NULL OR s.cost IS NOT NULL)
				AND COALESCE(s.exit_date, s.date) >= $2 AND COALESCE(s.exit_date, s.date) <= $3),
			COUNT(*) FILTER (WHERE s.exit_date IS NULL AND s.cost IS NULL
				AND s.date >= $2 AND s.date <= $3),
			COUNT(*) FILTER (WHERE s.exit_date IS NULL AND s.cost IS NULL
				AND s.date >= $2 AND s.date <= $3 AND s.worker_id IS NOT NULL),
			COUNT(*) FILTER (WHERE s.exit_date IS NULL AND s.cost IS NULL
				AND s.date >= $2 AND s.date <= $3 AND s.date < $4),
			COALESCE(SUM(s.cost) FILTER (WHERE (s.exit_date IS NOT NULL OR s.cost IS NOT NULL)
				AND COALESCE(s.exit_date, s.date) >= $2 AND COALESCE(s.exit_date, s.date) <= $3), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (s.exit_date - s.date)) / 86400.0)
				FILTER (WHERE s.exit_date IS NOT NULL
				AND s.exit_date >= $2 AND s.exit_date <= $3), 0)
	` + dashboardScope + ` AND ($5::bigint IS NULL OR s.worker_id = $5)`

	overdueCutoff := now.AddDate(0, 0, -7)
	err := r.DB.QueryRow(countsQ, workshopID, from, to, overdueCutoff, workerFilter).Scan(
		&out.CompletedCount,
		&out.PendingCount,
		&out.InProgressCount,
		&out.OverdueCount,
		&out.TotalRevenue,
		&out.AverageDaysToComplete,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary counts: %w", err)
	}
	if out.CompletedCount > 0 {
		out.AverageTicketValue = out.TotalRevenue / float64(out.CompletedCount)
	}

	// отдельный JOIN, чтобы не тянуть workers в общий scope
	const topWorkerQ = `
		SELECT w.name, COUNT(*) AS cnt
		FROM services s
		JOIN vehicles v ON v.id = s.vehicle_id
		JOIN clients c ON c.id = v.client_id
		JOIN workers w ON w.id = s.worker_id
		WHERE c.workshop_id = $1
		  AND (s.exit_date IS NOT NULL OR s.cost IS NOT NULL)
		  AND COALESCE(s.exit_date, s.date) >= $2 AND COALESCE(s.exit_date, s.date) <= $3
		  AND ($4::bigint IS NULL OR s.worker_id = $4)
		GROUP BY w.id, w.name
		ORDER BY cnt DESC
		LIMIT 1
	`
	err = r.DB.QueryRow(topWorkerQ, workshopID, from, to, workerFilter).Scan(&out.TopWorkerName, &out.TopWorkerServiceCount)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("dashboard top worker: %w", err)
	}

	const topServicesQ = `
		SELECT s.service_type, COUNT(*) AS cnt
	` + dashboardScope + `
		AND (s.exit_date IS NOT NULL OR s.cost IS NOT NULL)
		AND COALESCE(s.exit_date, s.date) >= $2 AND COALESCE(s.exit_date, s.date) <= $3
		AND ($4::bigint IS NULL OR s.worker_id = $4)
		GROUP BY s.service_type
		ORDER BY cnt DESC
		LIMIT 5
	`
	rows, err := r.DB.Query(topServicesQ, workshopID, from, to, workerFilter)
	if err != nil {
		return nil, fmt.Errorf("dashboard top services: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc models.ServiceTypeCount
		if err := rows.Scan(&tc.ServiceType, &tc.Count); err != nil {
			return nil, err
		}
		out.TopServices = append(out.TopServices, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const nextActionsQ = `
		SELECT s.id, v.plate_number, c.name, s.service_type, s.worker_id, s.date, s.exit_date, s.next_service_date
	` + dashboardScope + `
		AND s.exit_date IS NULL AND s.cost IS NULL
		AND s.date >= $2 AND s.date <= $3
		AND ($4::bigint IS NULL OR s.worker_id = $4)
		ORDER BY s.date ASC
		LIMIT 10
	`
	naRows, err := r.DB.Query(nextActionsQ, workshopID, from, to, workerFilter)
	if err != nil {
		return nil, fmt.Errorf("dashboard next actions: %w", err)
	}
	defer naRows.Close()
	for naRows.Next() {
		var na models.NextAction
		var wid sql.NullInt64
		var exit, expected sql.NullTime
		if err := naRows.Scan(&na.ServiceID, &na.PlateNumber, &na.ClientName, &na.ServiceName, &wid, &na.EntryDate, &exit, &expected); err != nil {
			return nil, err
		}
		if wid.Valid {
			na.Status = "En progreso"
		} else {
			na.Status = "Pendiente"
		}
		if exit.Valid {
			t := exit.Time
			na.ExitDate = &t
		}
		if expected.Valid {
			t := expected.Time
			na.ExpectedDate = &t
		}
		na.DaysOpen = int(now.Sub(na.EntryDate).Hours() / 24)
		out.NextActions = append(out.NextActions, na)
	}
	if err := naRows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// TodayClosed — сервисы, закрытые сегодня, и их суммарная стоимость.
func (r *DashboardRepository) TodayClosed(workshopID int64) (count int, revenue float64, err error) {
	const q = `
		SELECT COUNT(*), COALESCE(SUM(s.cost), 0)
	` + dashboardScope + `
		AND s.exit_date IS NOT NULL
		AND s.exit_date::date = CURRENT_DATE
	`
	err = r.DB.QueryRow(q, workshopID).Scan(&count, &revenue)
	return count, revenue, err
}

// PendingServices — открытые сервисы, старые первыми.
func (r *DashboardRepository) PendingServices(workshopID int64) ([]*models.ServiceDetail, error) {
	const q = `
		SELECT ` + serviceDetailColumns + serviceDetailFrom + `
		WHERE c.workshop_id = $1 AND s.exit_date IS NULL
		ORDER BY s.date ASC
	`
	rows, err := r.DB.Query(q, workshopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*models.ServiceDetail{}
	for rows.Next() {
		d, err := scanServiceDetail(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *DashboardRepository) TopClients(workshopID int64, month, year int) ([]models.ClientServiceCount, error) {
	const q = `
		SELECT c.name, COUNT(*) AS cnt
	` + dashboardScope + `
		AND EXTRACT(MONTH FROM s.date) = $2 AND EXTRACT(YEAR FROM s.date) = $3
		GROUP BY c.id, c.name
		ORDER BY cnt DESC
		LIMIT 5
	`
	rows, err := r.DB.Query(q, workshopID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ClientServiceCount{}
	for rows.Next() {
		var cc models.ClientServiceCount
		if err := rows.Scan(&cc.Name, &cc.Count); err != nil {
			return nil, err
		}
		list = append(list, cc)
	}
	return list, rows.Err()
}

func (r *DashboardRepository) TopServiceTypes(workshopID int64, month, year int) ([]models.ServiceTypeCount, error) {
	const q = `
		SELECT s.service_type, COUNT(*) AS cnt
	` + dashboardScope + `
		AND EXTRACT(MONTH FROM s.date) = $2 AND EXTRACT(YEAR FROM s.date) = $3
		GROUP BY s.service_type
		ORDER BY cnt DESC
	`
	rows, err := r.DB.Query(q, workshopID, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ServiceTypeCount{}
	for rows.Next() {
		var tc models.ServiceTypeCount
		if err := rows.Scan(&tc.ServiceType, &tc.Count); err != nil {
			return nil, err
		}
		list = append(list, tc)
	}
	return list, rows.Err()
}

func (r *DashboardRepository) ServicesPerDay(workshopID int64, from, to time.Time) ([]models.DayCount, error) {
	const q = `
		SELECT to_char(s.date::date, 'YYYY-MM-DD') AS day, COUNT(*)
	` + dashboardScope + `
		AND s.date >= $2 AND s.date <= $3
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := r.DB.Query(q, workshopID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.DayCount{}
	for rows.Next() {
		var dc models.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		list = append(list, dc)
	}
	return list, rows.Err()
}

// AverageDeliveryHours — среднее время от заезда до выдачи по закрытым сервисам.
func (r *DashboardRepository) AverageDeliveryHours(workshopID int64) (float64, error) {
	const q = `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (s.exit_date - s.date)) / 3600.0), 0)
	` + dashboardScope + `
		AND s.exit_date IS NOT NULL
	`
	var hours float64
	if err := r.DB.QueryRow(q, workshopID).Scan(&hours); err != nil {
		return 0, err
	}
	return hours, nil
}

func (r *DashboardRepository) MonthlyIncome(workshopID int64, month, year int) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(s.cost), 0)
	` + dashboardScope + `
		AND s.exit_date IS NOT NULL
		AND EXTRACT(MONTH FROM s.exit_date) = $2 AND EXTRACT(YEAR FROM s.exit_date) = $3
	`
	var income float64
	if err := r.DB.QueryRow(q, workshopID, month, year).Scan(&income); err != nil {
		return 0, err
	}
	return income, nil
}
