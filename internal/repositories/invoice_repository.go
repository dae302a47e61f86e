package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"autoclient/internal/models"
)

type InvoiceRepository struct {
	DB *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// NextNumber — сквозной номер фактуры из последовательности.
// Если последовательности ещё нет (42P01) — создаём на лету.
func (r *InvoiceRepository) NextNumber() (int64, error) {
	var n int64
	err := r.DB.QueryRow(`SELECT nextval('invoice_number_seq')`).Scan(&n)
	if err == nil {
		return n, nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "42P01" {
		log.Printf("[invoice][seq] invoice_number_seq not found, creating")
		if _, cerr := r.DB.Exec(`CREATE SEQUENCE IF NOT EXISTS invoice_number_seq START 1000`); cerr != nil {
			return 0, fmt.Errorf("invoice create sequence: %w", cerr)
		}
		if err := r.DB.QueryRow(`SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
			return 0, fmt.Errorf("invoice nextval: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("invoice nextval: %w", err)
}

// Create — шапка и позиции одной транзакцией.
func (r *InvoiceRepository) Create(inv *models.Invoice) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("invoice create: begin: %w", err)
	}
	defer tx.Rollback()

	const headQ = `
		INSERT INTO invoices (service_id, invoice_number, invoice_date,
			client_name, client_email, client_address,
			payment_type, received_by, subtotal, tax, total, pdf_url, created_by, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW())
		RETURNING id, created_at
	`
	var serviceID interface{}
	if inv.ServiceID != nil {
		serviceID = *inv.ServiceID
	}
	if err := tx.QueryRow(headQ,
		serviceID, inv.InvoiceNumber, inv.InvoiceDate,
		inv.ClientName, inv.ClientEmail, inv.ClientAddress,
		inv.PaymentType, inv.ReceivedBy, inv.Subtotal, inv.Tax, inv.Total, inv.PdfURL, inv.CreatedBy,
	).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		return fmt.Errorf("invoice create: head: %w", err)
	}

	const itemQ = `
		INSERT INTO invoice_items (invoice_id, quantity, description, unit_price, line_total, sort_order)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`
	for i := range inv.Items {
		it := &inv.Items[i]
		it.InvoiceID = inv.ID
		if err := tx.QueryRow(itemQ,
			inv.ID, it.Quantity, it.Description, it.UnitPrice, it.LineTotal, it.SortOrder,
		).Scan(&it.ID); err != nil {
			return fmt.Errorf("invoice create: item %d: %w", it.SortOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoice create: commit: %w", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByID(id int64) (*models.Invoice, error) {
	const q = `
		SELECT id, service_id, invoice_number, invoice_date,
			client_name, client_email, client_address,
			payment_type, received_by, subtotal, tax, total, pdf_url, COALESCE(created_by,''), created_at
		FROM invoices
		WHERE id = $1
	`
	var inv models.Invoice
	var serviceID sql.NullInt64
	err := r.DB.QueryRow(q, id).Scan(
		&inv.ID, &serviceID, &inv.InvoiceNumber, &inv.InvoiceDate,
		&inv.ClientName, &inv.ClientEmail, &inv.ClientAddress,
		&inv.PaymentType, &inv.ReceivedBy, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.PdfURL, &inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("invoice get: %w", err)
	}
	if serviceID.Valid {
		s := serviceID.Int64
		inv.ServiceID = &s
	}

	const itemsQ = `
		SELECT id, invoice_id, quantity, description, unit_price, line_total, sort_order
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY sort_order
	`
	rows, err := r.DB.Query(itemsQ, id)
	if err != nil {
		return nil, fmt.Errorf("invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it models.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Quantity, &it.Description, &it.UnitPrice, &it.LineTotal, &it.SortOrder); err != nil {
			return nil, fmt.Errorf("invoice item scan: %w", err)
		}
		inv.Items = append(inv.Items, it)
	}
	return &inv, rows.Err()
}

func (r *InvoiceRepository) UpdatePdfURL(id int64, pdfURL string) error {
	if _, err := r.DB.Exec(`UPDATE invoices SET pdf_url=$1 WHERE id=$2`, pdfURL, id); err != nil {
		return fmt.Errorf("invoice update pdf url: %w", err)
	}
	return nil
}
