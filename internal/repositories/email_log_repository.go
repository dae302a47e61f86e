package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"autoclient/internal/models"
)

type EmailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) *EmailLogRepository {
	return &EmailLogRepository{DB: db}
}

func (r *EmailLogRepository) Create(l *models.EmailLog) error {
	const q = `
		INSERT INTO email_logs (workshop_id, client_id, email, template_type, sent_at, success, error_message)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	if err := r.DB.QueryRow(q,
		l.WorkshopID, l.ClientID, l.Email, l.TemplateType, l.SentAt, l.Success, l.ErrorMessage,
	).Scan(&l.ID); err != nil {
		return fmt.Errorf("email_log create: %w", err)
	}
	return nil
}

// EmailLogFilter — фильтры выдачи журнала.
type EmailLogFilter struct {
	ClientID     *int64
	DateFrom     time.Time
	DateTo       time.Time
	Status       string // All | Successful | Failed | Skipped
	TemplateType string // All | CarReady | ...
	Limit        int
}

func (r *EmailLogRepository) List(workshopID int64, f EmailLogFilter) ([]*models.EmailLog, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, workshop_id, client_id, email, template_type, sent_at, success, error_message
		FROM email_logs
		WHERE workshop_id = $1 AND sent_at >= $2 AND sent_at <= $3
	`)
	args := []interface{}{workshopID, f.DateFrom, f.DateTo}

	if f.ClientID != nil {
		args = append(args, *f.ClientID)
		fmt.Fprintf(&sb, " AND client_id = $%d", len(args))
	}
	if f.TemplateType != "" && f.TemplateType != "All" {
		args = append(args, f.TemplateType)
		fmt.Fprintf(&sb, " AND template_type = $%d", len(args))
	}
	switch f.Status {
	case "Successful":
		sb.WriteString(" AND success = TRUE")
	case "Failed":
		sb.WriteString(" AND success = FALSE AND (error_message IS NULL OR error_message NOT LIKE '%" + models.EmailLogSkippedMarker + "%')")
	case "Skipped":
		sb.WriteString(" AND success = FALSE AND error_message LIKE '%" + models.EmailLogSkippedMarker + "%'")
	}

	args = append(args, f.Limit)
	fmt.Fprintf(&sb, " ORDER BY sent_at DESC LIMIT $%d", len(args))

	rows, err := r.DB.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("email_log list: %w", err)
	}
	defer rows.Close()

	var res []*models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.WorkshopID, &l.ClientID, &l.Email, &l.TemplateType, &l.SentAt, &l.Success, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("email_log scan: %w", err)
		}
		res = append(res, &l)
	}
	return res, rows.Err()
}

// ClientNames — имена клиентов для выдачи журнала (отдельным запросом).
func (r *EmailLogRepository) ClientNames(ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := r.DB.Query(`SELECT id, name FROM clients WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("email_log client names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("email_log client names scan: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
