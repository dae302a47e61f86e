package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Типы шаблонов клиентских писем.
const (
	TemplateCarReady      = "CarReady"
	TemplateUpcomingVisit = "UpcomingVisit"
	TemplatePartsNeeded   = "PartsNeeded"
)

// TemplateModel — данные для подстановки в шаблон письма.
type TemplateModel struct {
	ClientName         string
	VehiclePlate       string
	WorkshopName       string
	WorkshopPhone      string
	ServiceDate        *time.Time
	ServiceCost        *float64
	NextServiceDate    *time.Time
	NextServiceMileage string
	PartsDescription   string
}

type EmailService interface {
	SendOtpEmail(to, workshopName, code string) error
	SendWelcomeEmail(to, workshopName string) error
	SendTemplateEmail(to, templateType string, model TemplateModel) error
	SendUpcomingReminder(to, clientName, plate string, nextDate time.Time, nextMileageTarget string) error
	// SendInvoiceEmail — письмо со счётом и вложенным PDF (путь на диске).
	SendInvoiceEmail(to, clientName string, invoiceNumber int64, total float64, pdfPath string) error
}

type emailService struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, senderName string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:     dialer,
		from:       fromEmail,
		senderName: senderName,
	}
}

func (s *emailService) send(to, subject, htmlBody string, attachments ...string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	for _, path := range attachments {
		m.Attach(path)
	}
	return s.dialer.DialAndSend(m)
}

// SendOtpEmail — код подтверждения входа. Сам код в лог не пишем.
func (s *emailService) SendOtpEmail(to, workshopName, code string) error {
	subject := fmt.Sprintf("Código de verificación - %s", workshopName)
	body := fmt.Sprintf(`
		<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px'>
			<h2>Código de verificación</h2>
			<p>Tu código para <b>%s</b> es:
				<b style='font-size:18px; letter-spacing:2px'>%s</b></p>
			<p>Este código expira en 10 minutos.</p>
		</div>
	`, workshopName, code)

	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(to, workshopName string) error {
	subject := "Bienvenido a AutoClient"
	body := fmt.Sprintf(`
		<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px'>
			<h2>¡Bienvenido, %s!</h2>
			<p>Tu cuenta ha sido creada exitosamente.</p>
			<p>Ya puedes gestionar clientes, vehículos y servicios desde tu panel.</p>
		</div>
	`, workshopName)

	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendTemplateEmail(to, templateType string, model TemplateModel) error {
	subject, body, err := renderTemplate(templateType, model)
	if err != nil {
		return err
	}
	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateType, err)
	}
	return nil
}

func (s *emailService) SendUpcomingReminder(to, clientName, plate string, nextDate time.Time, nextMileageTarget string) error {
	subject := "Recordatorio: próximo servicio – AutoClient"
	mileage := ""
	if nextMileageTarget != "" {
		mileage = fmt.Sprintf(" o al alcanzar <b>%s</b> km", nextMileageTarget)
	}
	body := fmt.Sprintf(`
		<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px'>
			<h2>Recordatorio de próximo servicio</h2>
			<p>Hola %s,</p>
			<p>Tu vehículo con placa <b>%s</b> tiene programado el próximo servicio para el <b>%s</b>%s.</p>
			<p>Agenda tu cita para evitar contratiempos.</p>
		</div>
	`, clientName, plate, nextDate.Format("2006-01-02"), mileage)

	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	return nil
}

func (s *emailService) SendInvoiceEmail(to, clientName string, invoiceNumber int64, total float64, pdfPath string) error {
	subject := fmt.Sprintf("Factura #%d – AutoClient", invoiceNumber)
	body := fmt.Sprintf(`
		<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px'>
			<h2>Factura #%d</h2>
			<p>Hola %s,</p>
			<p>Adjuntamos tu factura por un total de <b>$%.2f</b>.</p>
			<p>¡Gracias por tu preferencia!</p>
		</div>
	`, invoiceNumber, clientName, total)

	if err := s.send(to, subject, body, pdfPath); err != nil {
		return fmt.Errorf("failed to send invoice email: %w", err)
	}
	return nil
}

func renderTemplate(templateType string, m TemplateModel) (subject, body string, err error) {
	switch templateType {
	case TemplateCarReady:
		dateStr := time.Now().UTC().Format("2006-01-02 15:04")
		if m.ServiceDate != nil {
			dateStr = m.ServiceDate.Format("2006-01-02 15:04")
		}
		cost := ""
		if m.ServiceCost != nil {
			cost = fmt.Sprintf("<p>Costo del servicio: <b>$%.2f</b></p>", *m.ServiceCost)
		}
		body = fmt.Sprintf(`
			<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px;max-width:600px;margin:0 auto;'>
				<h2 style='color:#2563eb;'>¡Tu vehículo está listo!</h2>
				<p>Hola %s,</p>
				<p>¡Buenas noticias! Tu vehículo %s está <b>listo para entrega</b> (completado el %s).</p>
				%s
				<p style='color:#6b7280;font-size:13px;'>Si tienes alguna pregunta, contáctanos al <b>%s</b>.</p>
				<p>¡Gracias por confiar en <b>%s</b>!</p>
			</div>
		`, m.ClientName, plateInfo(m.VehiclePlate), dateStr, cost, m.WorkshopPhone, m.WorkshopName)
		return "Tu auto está listo – AutoClient", body, nil

	case TemplateUpcomingVisit:
		dateStr := "pronto"
		if m.NextServiceDate != nil {
			dateStr = m.NextServiceDate.Format("2006-01-02")
		}
		mileage := ""
		if m.NextServiceMileage != "" {
			mileage = fmt.Sprintf(" o al alcanzar <b>%s</b> km", m.NextServiceMileage)
		}
		body = fmt.Sprintf(`
			<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px;max-width:600px;margin:0 auto;'>
				<h2 style='color:#2563eb;'>Recordatorio de Servicio</h2>
				<p>Hola %s,</p>
				<p>Este es un recordatorio amistoso de que tu vehículo %s tiene un servicio programado para el <b>%s</b>%s.</p>
				<p>Te recomendamos agendar tu cita para evitar contratiempos.</p>
				<p style='color:#6b7280;font-size:13px;'>Para agendar tu cita, llámanos al <b>%s</b>.</p>
				<p>¡Gracias por elegir <b>%s</b>!</p>
			</div>
		`, m.ClientName, plateInfo(m.VehiclePlate), dateStr, mileage, m.WorkshopPhone, m.WorkshopName)
		return "Recordatorio: próximo servicio – AutoClient", body, nil

	case TemplatePartsNeeded:
		parts := ""
		if m.PartsDescription != "" {
			parts = fmt.Sprintf("<p>Repuestos requeridos: <b>%s</b></p>", m.PartsDescription)
		}
		body = fmt.Sprintf(`
			<div style='font-family:Segoe UI,Arial,sans-serif;font-size:14px;max-width:600px;margin:0 auto;'>
				<h2 style='color:#f59e0b;'>Repuestos Necesarios</h2>
				<p>Hola %s,</p>
				<p>Actualmente estamos trabajando en tu vehículo %s, y necesitamos ordenar algunos repuestos antes de poder continuar.</p>
				%s
				<p>Te notificaremos tan pronto lleguen los repuestos. Agradecemos tu paciencia.</p>
				<p style='color:#6b7280;font-size:13px;'>Si tienes alguna pregunta, contáctanos al <b>%s</b>.</p>
				<p>¡Gracias por tu comprensión y por elegir <b>%s</b>!</p>
			</div>
		`, m.ClientName, plateInfo(m.VehiclePlate), parts, m.WorkshopPhone, m.WorkshopName)
		return "Repuestos Necesarios para tu Servicio – AutoClient", body, nil
	}
	return "", "", fmt.Errorf("unknown template type: %s", templateType)
}

func plateInfo(plate string) string {
	if plate == "" {
		return ""
	}
	return fmt.Sprintf("con placa <b>%s</b>", plate)
}
