package models

import "time"

type Invoice struct {
	ID            int64     `json:"id"`
	ServiceID     *int64    `json:"service_id,omitempty"`
	InvoiceNumber int64     `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`

	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientAddress string `json:"client_address"`

	PaymentType string `json:"payment_type"` // contado|credito
	ReceivedBy  string `json:"received_by"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	PdfURL    string    `json:"pdf_url"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`

	Items []InvoiceItem `json:"items"`
}

type InvoiceItem struct {
	ID          int64   `json:"id"`
	InvoiceID   int64   `json:"invoice_id"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	SortOrder   int     `json:"sort_order"`
}
