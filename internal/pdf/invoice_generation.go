package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"autoclient/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateInvoice(inv *models.Invoice, template string) (string, error)
}

// InvoiceGenerator — реализация поверх gofpdf. Шрифты ядра (cp1252)
// покрывают испанские тексты через UnicodeTranslator.
type InvoiceGenerator struct {
	RootDir      string // корень хранения, например "./files"
	TemplatePath string // PNG преднапечатанной формы; если нет — digital
	WorkshopName string
}

func NewInvoiceGenerator(rootDir, templatePath, workshopName string) *InvoiceGenerator {
	if workshopName == "" {
		workshopName = "AutoClient"
	}
	return &InvoiceGenerator{
		RootDir:      filepath.Clean(rootDir),
		TemplatePath: templatePath,
		WorkshopName: workshopName,
	}
}

// GenerateInvoice пишет PDF на диск и возвращает относительный URL файла.
// template: "digital" | "preprinted".
func (g *InvoiceGenerator) GenerateInvoice(inv *models.Invoice, template string) (string, error) {
	absPath, err := g.ensureTarget(fmt.Sprintf("invoice_%d.pdf", inv.InvoiceNumber))
	if err != nil {
		return "", err
	}

	var pdf *gofpdf.Fpdf
	if strings.EqualFold(template, "preprinted") && g.templateExists() {
		pdf = g.renderPreprinted(inv)
	} else {
		pdf = g.renderDigital(inv)
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("invoice pdf write: %w", err)
	}
	return "/invoices/" + filepath.Base(absPath), nil
}

func (g *InvoiceGenerator) renderDigital(inv *models.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("Factura N° %d", inv.InvoiceNumber), false)
	pdf.SetAuthor(g.WorkshopName, false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ===== Заголовок
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, tr(strings.ToUpper(g.WorkshopName)), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	sub := fmt.Sprintf("Factura N° %d  ·  Fecha: %s",
		inv.InvoiceNumber,
		inv.InvoiceDate.Format("02/01/2006"),
	)
	pdf.CellFormat(0, 7, tr(sub), "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Cliente
	g.sectionTitle(pdf, tr, "Cliente")
	g.kvLine(pdf, tr, "Nombre", inv.ClientName)
	if inv.ClientAddress != "" {
		g.kvLine(pdf, tr, "Dirección", inv.ClientAddress)
	}
	g.kvLine(pdf, tr, "Pago", strings.ToUpper(inv.PaymentType))
	if inv.ReceivedBy != "" {
		g.kvLine(pdf, tr, "Recibido por", inv.ReceivedBy)
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Таблица позиций
	g.sectionTitle(pdf, tr, "Detalle")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(18, 7, tr("CANT."), "B", 0, "L", false, 0, "")
	pdf.CellFormat(100, 7, tr("DESCRIPCIÓN"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(26, 7, tr("P. UNIT."), "B", 0, "R", false, 0, "")
	pdf.CellFormat(26, 7, tr("TOTAL"), "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, it := range inv.Items {
		pdf.CellFormat(18, 6, trimZeros(it.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(100, 6, tr(it.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", it.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(26, 6, fmt.Sprintf("%.2f", it.LineTotal), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Итоги
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(144, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(26, 6, tr("SUB-TOTAL:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", inv.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(144, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(26, 6, tr("I.T.B.M.S:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", inv.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(144, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(26, 6, tr("TOTAL:"), "", 0, "R", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", inv.Total), "", 1, "R", false, 0, "")

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Pág. %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf
}

// renderPreprinted кладёт значения поверх скана бумажной формы.
// Координаты в мм, подобраны под форму в TemplatePath.
func (g *InvoiceGenerator) renderPreprinted(inv *models.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// фон: вся страница Letter (216x279 мм)
	pdf.ImageOptions(g.TemplatePath, 0, 0, 216, 279, false,
		gofpdf.ImageOptions{ImageType: "", ReadDpi: true}, 0, "")

	// номер и дата
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(178, 58, 42)
	pdf.Text(148, 28, tr(fmt.Sprintf("N° %d", inv.InvoiceNumber)))
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "B", 11)
	pdf.Text(180, 38, fmt.Sprintf("%02d", inv.InvoiceDate.Day()))
	pdf.Text(194, 38, fmt.Sprintf("%02d", int(inv.InvoiceDate.Month())))
	pdf.Text(206, 38, fmt.Sprintf("%d", inv.InvoiceDate.Year()))

	// клиент
	pdf.SetFont("Arial", "", 10)
	pdf.Text(25, 60, tr(inv.ClientName))
	pdf.Text(25, 70, tr(inv.ClientAddress))

	// CRÉDITO / CONTADO
	credito := strings.EqualFold(inv.PaymentType, "credito")
	pdf.SetFont("Arial", "B", 11)
	if credito {
		pdf.Text(184, 60, "X")
	} else {
		pdf.Text(184, 67, "X")
	}

	// позиции (на форме 12 строк)
	const maxRows = 12
	pdf.SetFont("Arial", "", 10)
	y := 85.0
	for i, it := range inv.Items {
		if i >= maxRows {
			break
		}
		pdf.Text(24, y, trimZeros(it.Quantity))
		pdf.Text(44, y, tr(it.Description))
		pdf.Text(152, y, fmt.Sprintf("%.2f", it.UnitPrice))
		pdf.Text(184, y, fmt.Sprintf("%.2f", it.LineTotal))
		y += 9
	}

	// итоги
	pdf.SetFont("Arial", "B", 11)
	pdf.Text(184, 188, fmt.Sprintf("%.2f", inv.Subtotal))
	pdf.Text(184, 197, fmt.Sprintf("%.2f", inv.Tax))
	pdf.Text(184, 206, fmt.Sprintf("%.2f", inv.Total))

	// recibido por
	pdf.SetFont("Arial", "", 10)
	pdf.Text(32, 220, tr(inv.ReceivedBy))

	return pdf
}

// === helpers ===

func (g *InvoiceGenerator) sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, tr(s), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
}

func (g *InvoiceGenerator) kvLine(pdf *gofpdf.Fpdf, tr func(string) string, key, val string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 6, tr(key+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, tr(val), "", 1, "L", false, 0, "")
}

func (g *InvoiceGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 196, y)
	pdf.SetY(y + 2)
}

func (g *InvoiceGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "invoices")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoices dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(dir, filename), nil
}

func (g *InvoiceGenerator) templateExists() bool {
	if g.TemplatePath == "" {
		return false
	}
	info, err := os.Stat(g.TemplatePath)
	return err == nil && !info.IsDir()
}

// trimZeros — количество без хвостовых нулей (2, 1.5).
func trimZeros(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
