package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"
	"time"

	"autoclient/internal/models"
	"autoclient/internal/pdf"
	"autoclient/internal/repositories"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrServiceNotInvoicable = errors.New("service has no exit date")
)

const defaultInvoiceTaxRate = 0.07

// InvoiceItemRequest — одна позиция счёта.
type InvoiceItemRequest struct {
	Qty         float64 `json:"qty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
}

// InvoiceCreateRequest — создание счёта; все поля опциональны при
// выставлении из сервиса (дефолты берутся из него).
type InvoiceCreateRequest struct {
	Template      string               `json:"template"` // digital|preprinted
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email"`
	ClientAddress string               `json:"client_address"`
	Date          *time.Time           `json:"date"`
	PaymentType   string               `json:"payment_type"` // contado|credito
	ReceivedBy    string               `json:"received_by"`
	Items         []InvoiceItemRequest `json:"items"`
	TaxRate       *float64             `json:"tax_rate"`
	SendEmail     bool                 `json:"send_email"`
	ServiceID     *int64               `json:"service_id"`
}

type InvoiceService struct {
	repo      *repositories.InvoiceRepository
	services  *repositories.ServiceRepository
	generator pdf.Generator
	emails    EmailService
	rootDir   string
}

func NewInvoiceService(
	repo *repositories.InvoiceRepository,
	services *repositories.ServiceRepository,
	generator pdf.Generator,
	emails EmailService,
	rootDir string,
) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		services:  services,
		generator: generator,
		emails:    emails,
		rootDir:   filepath.Clean(rootDir),
	}
}

// CreateFromService — счёт по закрытому сервису; overrides поверх дефолтов.
func (s *InvoiceService) CreateFromService(workshopID, serviceID int64, overrides *InvoiceCreateRequest) (*models.Invoice, error) {
	detail, err := s.services.GetByID(workshopID, serviceID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, ErrServiceNotFound
	}
	if detail.ExitDate == nil {
		return nil, ErrServiceNotInvoicable
	}

	req := InvoiceCreateRequest{
		Template:    "preprinted",
		PaymentType: "contado",
		SendEmail:   true,
	}
	if overrides != nil {
		req = *overrides
	}
	req.ServiceID = &serviceID

	if req.ClientName == "" {
		req.ClientName = detail.ClientName
		req.ClientEmail = detail.ClientEmail
	}
	if req.Date == nil {
		req.Date = detail.ExitDate
	}
	if len(req.Items) == 0 {
		cost := 0.0
		if detail.Cost != nil {
			cost = *detail.Cost
		}
		desc := detail.ServiceType
		if desc == "" {
			desc = "Servicio"
		}
		req.Items = []InvoiceItemRequest{{Qty: 1, Description: desc, UnitPrice: cost}}
	}
	return s.Create(workshopID, req)
}

// Create — корреляционный номер, итоги, PDF на диск, опциональное письмо.
func (s *InvoiceService) Create(workshopID int64, req InvoiceCreateRequest) (*models.Invoice, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("invoice needs at least one item")
	}

	number, err := s.repo.NextNumber()
	if err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}
	paymentType := strings.ToLower(strings.TrimSpace(req.PaymentType))
	if paymentType != "credito" {
		paymentType = "contado"
	}
	taxRate := defaultInvoiceTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	inv := &models.Invoice{
		ServiceID:     req.ServiceID,
		InvoiceNumber: number,
		InvoiceDate:   date,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   strings.TrimSpace(req.ClientEmail),
		ClientAddress: strings.TrimSpace(req.ClientAddress),
		PaymentType:   paymentType,
		ReceivedBy:    strings.TrimSpace(req.ReceivedBy),
	}

	subtotal := 0.0
	for i, it := range req.Items {
		lineTotal := round2(it.Qty * it.UnitPrice)
		inv.Items = append(inv.Items, models.InvoiceItem{
			Quantity:    it.Qty,
			Description: strings.TrimSpace(it.Description),
			UnitPrice:   it.UnitPrice,
			LineTotal:   lineTotal,
			SortOrder:   i + 1,
		})
		subtotal += lineTotal
	}
	inv.Subtotal = round2(subtotal)
	inv.Tax = round2(inv.Subtotal * taxRate)
	inv.Total = round2(inv.Subtotal + inv.Tax)

	if err := s.repo.Create(inv); err != nil {
		return nil, err
	}

	pdfURL, err := s.generator.GenerateInvoice(inv, req.Template)
	if err != nil {
		return nil, err
	}
	inv.PdfURL = pdfURL
	if err := s.repo.UpdatePdfURL(inv.ID, pdfURL); err != nil {
		return nil, err
	}

	if req.SendEmail && inv.ClientEmail != "" {
		if err := s.emails.SendInvoiceEmail(inv.ClientEmail, inv.ClientName, inv.InvoiceNumber, inv.Total, s.PdfPath(inv)); err != nil {
			// счёт уже создан, письмо не критично
			log.Printf("[mail][invoice] dispatch failed: invoice_id=%d err=%v", inv.ID, err)
		}
	}
	return inv, nil
}

func (s *InvoiceService) GetByID(id int64) (*models.Invoice, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// PdfPath — абсолютный путь файла счёта на диске.
func (s *InvoiceService) PdfPath(inv *models.Invoice) string {
	return filepath.Join(s.rootDir, "invoices", fmt.Sprintf("invoice_%d.pdf", inv.InvoiceNumber))
}

// round2 — банковское округление здесь не нужно, достаточно half-away-from-zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
