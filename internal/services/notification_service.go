package services

import (
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
)

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrServiceNotCompleted  = errors.New("service is not completed")
	ErrClientNoEmail        = errors.New("client has no email")
	ErrInvalidTemplateType  = errors.New("invalid template type")
	ErrInvalidEmailAddress  = errors.New("invalid email address")
	ErrNoNextServiceDate    = errors.New("service has no next service date")
	ErrOutsideReminderWindow = errors.New("outside reminder window")
	// ErrSendFailed — SMTP не принял письмо; наружу уходит 502.
	ErrSendFailed = errors.New("email dispatch failed")
)

// SendRequest — ручная отправка шаблонного письма клиенту.
type SendRequest struct {
	ClientID         int64  `json:"client_id" binding:"required"`
	TemplateType     string `json:"template_type" binding:"required"`
	ServiceID        *int64 `json:"service_id,omitempty"`
	EmailOverride    string `json:"email_override,omitempty"`
	PartsDescription string `json:"parts_description,omitempty"`
}

// UpcomingPreview — кандидат на напоминание о следующем сервисе.
type UpcomingPreview struct {
	ServiceID                int64     `json:"service_id"`
	VehicleID                int64     `json:"vehicle_id"`
	Plate                    string    `json:"plate"`
	Brand                    string    `json:"brand,omitempty"`
	Model                    string    `json:"model,omitempty"`
	Year                     int       `json:"year,omitempty"`
	ClientName               string    `json:"client_name"`
	Email                    string    `json:"email"`
	NextServiceDate          time.Time `json:"next_service_date"`
	NextServiceMileageTarget string    `json:"next_service_mileage_target,omitempty"`
	DaysLeft                 int       `json:"days_left"`
}

// BulkResult — итог пакетной рассылки.
type BulkResult struct {
	Sent    int     `json:"sent"`
	Skipped int     `json:"skipped"`
	Errors  []int64 `json:"errors"`
}

// EmailLogView — строка журнала с именем клиента и статусом.
type EmailLogView struct {
	ID           int64     `json:"id"`
	ClientID     int64     `json:"client_id"`
	ClientName   string    `json:"client_name"`
	Email        string    `json:"email"`
	TemplateType string    `json:"template_type"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"` // Successful | Failed | Skipped
	ErrorMessage string    `json:"error_message,omitempty"`
}

type NotificationService struct {
	settings  *repositories.NotificationSettingsRepository
	logs      *repositories.EmailLogRepository
	services  *repositories.ServiceRepository
	clients   *repositories.ClientRepository
	workshops repositories.WorkshopRepository
	emails    EmailService
}

func NewNotificationService(
	settings *repositories.NotificationSettingsRepository,
	logs *repositories.EmailLogRepository,
	services *repositories.ServiceRepository,
	clients *repositories.ClientRepository,
	workshops repositories.WorkshopRepository,
	emails EmailService,
) *NotificationService {
	return &NotificationService{
		settings:  settings,
		logs:      logs,
		services:  services,
		clients:   clients,
		workshops: workshops,
		emails:    emails,
	}
}

// GetSettings отдаёт дефолты, если мастерская ещё ничего не настраивала.
func (s *NotificationService) GetSettings(workshopID int64) (*models.NotificationSettings, error) {
	set, err := s.settings.GetByWorkshop(workshopID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return models.DefaultNotificationSettings(workshopID), nil
	}
	return set, nil
}

func (s *NotificationService) UpdateSettings(workshopID int64, set *models.NotificationSettings) (*models.NotificationSettings, error) {
	if !validTemplateType(set.VehicleDeliveredTemplate) {
		return nil, ErrInvalidTemplateType
	}
	set.WorkshopID = workshopID
	if err := s.settings.Upsert(set); err != nil {
		return nil, err
	}
	return set, nil
}

// Send — ручная отправка шаблона клиенту. Каждая попытка логируется;
// ошибка SMTP завершается ErrSendFailed уже после записи в журнал.
func (s *NotificationService) Send(workshopID int64, req SendRequest) (int64, error) {
	templateType, ok := normalizeTemplateType(req.TemplateType)
	if !ok {
		return 0, ErrInvalidTemplateType
	}

	client, err := s.clients.GetByID(workshopID, req.ClientID)
	if err != nil {
		return 0, err
	}
	if client == nil {
		return 0, ErrClientNotFound
	}

	to := strings.TrimSpace(req.EmailOverride)
	if to == "" {
		to = client.Email
	}
	if to == "" {
		return 0, ErrClientNoEmail
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return 0, ErrInvalidEmailAddress
	}

	var detail *models.ServiceDetail
	if req.ServiceID != nil {
		detail, err = s.services.GetByID(workshopID, *req.ServiceID)
		if err != nil {
			return 0, err
		}
		if detail == nil {
			return 0, ErrServiceNotFound
		}
		if detail.ClientID != req.ClientID {
			return 0, fmt.Errorf("service %d does not belong to client %d", *req.ServiceID, req.ClientID)
		}
	}

	w, err := s.workshops.GetByID(workshopID)
	if err != nil || w == nil {
		return 0, fmt.Errorf("workshop %d lookup: %v", workshopID, err)
	}

	model := TemplateModel{
		ClientName:    client.Name,
		WorkshopName:  w.WorkshopName,
		WorkshopPhone: w.Phone,
	}
	if detail != nil {
		model.VehiclePlate = detail.PlateNumber
		model.ServiceDate = detail.ExitDate
		model.ServiceCost = detail.Cost
		model.NextServiceDate = detail.NextServiceDate
		model.NextServiceMileage = detail.NextServiceMileageTarget
	}
	if req.PartsDescription != "" {
		model.PartsDescription = req.PartsDescription
	}

	return s.sendAndLog(workshopID, client.ID, to, templateType, model)
}

// ResendCompleted — повторное "Auto listo" для закрытого сервиса.
func (s *NotificationService) ResendCompleted(workshopID, serviceID int64) (int64, error) {
	detail, err := s.services.GetByID(workshopID, serviceID)
	if err != nil {
		return 0, err
	}
	if detail == nil {
		return 0, ErrServiceNotFound
	}
	if detail.ExitDate == nil {
		return 0, ErrServiceNotCompleted
	}
	if detail.ClientEmail == "" {
		return 0, ErrClientNoEmail
	}

	w, err := s.workshops.GetByID(workshopID)
	if err != nil || w == nil {
		return 0, fmt.Errorf("workshop %d lookup: %v", workshopID, err)
	}

	model := TemplateModel{
		ClientName:    detail.ClientName,
		WorkshopName:  w.WorkshopName,
		WorkshopPhone: w.Phone,
		VehiclePlate:  detail.PlateNumber,
		ServiceDate:   detail.ExitDate,
		ServiceCost:   detail.Cost,
	}
	return s.sendAndLog(workshopID, detail.ClientID, detail.ClientEmail, TemplateCarReady, model)
}

// SendUpcomingForService — точечное напоминание; окно опционально.
func (s *NotificationService) SendUpcomingForService(workshopID, serviceID int64, enforceWindow bool, maxDaysAhead int) error {
	detail, err := s.services.GetByID(workshopID, serviceID)
	if err != nil {
		return err
	}
	if detail == nil {
		return ErrServiceNotFound
	}
	if detail.NextServiceDate == nil {
		return ErrNoNextServiceDate
	}
	if detail.ClientEmail == "" {
		return ErrClientNoEmail
	}
	if enforceWindow {
		if left := daysUntil(*detail.NextServiceDate); left < 0 || left > maxDaysAhead {
			return ErrOutsideReminderWindow
		}
	}
	return s.emails.SendUpcomingReminder(
		detail.ClientEmail, detail.ClientName, detail.PlateNumber,
		*detail.NextServiceDate, detail.NextServiceMileageTarget,
	)
}

// PreviewUpcoming — сервисы с next_service_date в диапазоне [from, to].
func (s *NotificationService) PreviewUpcoming(workshopID int64, from, to time.Time) ([]UpcomingPreview, error) {
	details, err := s.services.ListUpcoming(workshopID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]UpcomingPreview, 0, len(details))
	for _, d := range details {
		out = append(out, toPreview(d))
	}
	return out, nil
}

// SendUpcomingBulk — рассылка по явному списку сервисов.
func (s *NotificationService) SendUpcomingBulk(workshopID int64, ids []int64) (*BulkResult, error) {
	details, err := s.services.ListByIDs(workshopID, ids)
	if err != nil {
		return nil, err
	}
	res := &BulkResult{Errors: []int64{}}
	for _, d := range details {
		if d.NextServiceDate == nil || d.ClientEmail == "" {
			res.Skipped++
			continue
		}
		if err := s.emails.SendUpcomingReminder(
			d.ClientEmail, d.ClientName, d.PlateNumber,
			*d.NextServiceDate, d.NextServiceMileageTarget,
		); err != nil {
			log.Printf("[mail][upcoming] service_id=%d err=%v", d.ID, err)
			res.Errors = append(res.Errors, d.ID)
			continue
		}
		res.Sent++
	}
	return res, nil
}

// ScanUpcoming — кандидаты с next_service_date в [сегодня, сегодня+days],
// отправка только когда осталось ровно N дней из onlyOn. dryRun — без писем.
func (s *NotificationService) ScanUpcoming(workshopID int64, days int, onlyOn string, dryRun bool) ([]UpcomingPreview, *BulkResult, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	until := today.AddDate(0, 0, days)
	allowed := ParseOnlyOn(onlyOn)

	details, err := s.services.ListUpcoming(workshopID, today, until)
	if err != nil {
		return nil, nil, err
	}

	var candidates []*models.ServiceDetail
	for _, d := range details {
		if d.ClientEmail == "" {
			continue
		}
		if _, ok := allowed[daysUntil(*d.NextServiceDate)]; ok {
			candidates = append(candidates, d)
		}
	}

	if dryRun {
		preview := make([]UpcomingPreview, 0, len(candidates))
		for _, d := range candidates {
			preview = append(preview, toPreview(d))
		}
		return preview, nil, nil
	}

	res := &BulkResult{Errors: []int64{}}
	for _, d := range candidates {
		if err := s.emails.SendUpcomingReminder(
			d.ClientEmail, d.ClientName, d.PlateNumber,
			*d.NextServiceDate, d.NextServiceMileageTarget,
		); err != nil {
			log.Printf("[mail][upcoming][scan] service_id=%d err=%v", d.ID, err)
			res.Errors = append(res.Errors, d.ID)
			continue
		}
		res.Sent++
	}
	return nil, res, nil
}

// NotifyVehicleDelivered — автоматическое письмо после закрытия сервиса.
// Вызывается из горутины; все исходы, включая пропуск, попадают в журнал.
func (s *NotificationService) NotifyVehicleDelivered(workshopID, serviceID int64) {
	set, err := s.settings.GetByWorkshop(workshopID)
	if err != nil {
		log.Printf("[mail][delivered] settings lookup: workshop_id=%d err=%v", workshopID, err)
		return
	}
	if set == nil || !set.VehicleDeliveredEnabled {
		return
	}

	templateType, ok := normalizeTemplateType(set.VehicleDeliveredTemplate)
	if !ok {
		templateType = TemplateCarReady
	}

	detail, err := s.services.GetByID(workshopID, serviceID)
	if err != nil || detail == nil {
		log.Printf("[mail][delivered] service lookup: service_id=%d err=%v", serviceID, err)
		return
	}

	if detail.ClientEmail == "" {
		if set.OnlyIfEmailExists {
			skipMsg := models.EmailLogSkippedMarker + ": falta correo"
			s.writeLog(workshopID, detail.ClientID, "", templateType, false, &skipMsg)
		}
		return
	}

	w, err := s.workshops.GetByID(workshopID)
	if err != nil || w == nil {
		log.Printf("[mail][delivered] workshop lookup: workshop_id=%d err=%v", workshopID, err)
		return
	}

	model := TemplateModel{
		ClientName:    detail.ClientName,
		WorkshopName:  w.WorkshopName,
		WorkshopPhone: w.Phone,
		VehiclePlate:  detail.PlateNumber,
		ServiceDate:   detail.ExitDate,
		ServiceCost:   detail.Cost,
	}
	if _, err := s.sendAndLog(workshopID, detail.ClientID, detail.ClientEmail, templateType, model); err != nil && !errors.Is(err, ErrSendFailed) {
		log.Printf("[mail][delivered] service_id=%d err=%v", serviceID, err)
	}
}

// Logs — журнал с фильтрами и маппингом статуса.
func (s *NotificationService) Logs(workshopID int64, f repositories.EmailLogFilter) ([]EmailLogView, error) {
	entries, err := s.logs.List(workshopID, f)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(entries))
	seen := map[int64]bool{}
	for _, e := range entries {
		if !seen[e.ClientID] {
			seen[e.ClientID] = true
			ids = append(ids, e.ClientID)
		}
	}
	names, err := s.logs.ClientNames(ids)
	if err != nil {
		return nil, err
	}

	out := make([]EmailLogView, 0, len(entries))
	for _, e := range entries {
		v := EmailLogView{
			ID:           e.ID,
			ClientID:     e.ClientID,
			ClientName:   names[e.ClientID],
			Email:        e.Email,
			TemplateType: e.TemplateType,
			SentAt:       e.SentAt,
			Status:       "Failed",
		}
		if e.Success {
			v.Status = "Successful"
		} else if e.ErrorMessage != nil {
			v.ErrorMessage = *e.ErrorMessage
			if strings.Contains(*e.ErrorMessage, models.EmailLogSkippedMarker) {
				v.Status = "Skipped"
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// === внутреннее ===

func (s *NotificationService) sendAndLog(workshopID, clientID int64, to, templateType string, model TemplateModel) (int64, error) {
	sendErr := s.emails.SendTemplateEmail(to, templateType, model)

	var errMsg *string
	if sendErr != nil {
		msg := sendErr.Error()
		if len(msg) > 1000 {
			msg = msg[:1000]
		}
		errMsg = &msg
	}
	logID, logErr := s.writeLog(workshopID, clientID, to, templateType, sendErr == nil, errMsg)
	if logErr != nil {
		return 0, logErr
	}
	if sendErr != nil {
		log.Printf("[mail][%s] dispatch failed: client_id=%d err=%v", strings.ToLower(templateType), clientID, sendErr)
		return logID, ErrSendFailed
	}
	return logID, nil
}

func (s *NotificationService) writeLog(workshopID, clientID int64, to, templateType string, success bool, errMsg *string) (int64, error) {
	entry := &models.EmailLog{
		WorkshopID:   workshopID,
		ClientID:     clientID,
		Email:        to,
		TemplateType: templateType,
		SentAt:       time.Now().UTC(),
		Success:      success,
		ErrorMessage: errMsg,
	}
	if err := s.logs.Create(entry); err != nil {
		log.Printf("[mail][log] write failed: client_id=%d err=%v", clientID, err)
		return 0, err
	}
	return entry.ID, nil
}

func toPreview(d *models.ServiceDetail) UpcomingPreview {
	return UpcomingPreview{
		ServiceID:                d.ID,
		VehicleID:                d.VehicleID,
		Plate:                    d.PlateNumber,
		Brand:                    d.Brand,
		Model:                    d.Model,
		Year:                     d.Year,
		ClientName:               d.ClientName,
		Email:                    d.ClientEmail,
		NextServiceDate:          *d.NextServiceDate,
		NextServiceMileageTarget: d.NextServiceMileageTarget,
		DaysLeft:                 daysUntil(*d.NextServiceDate),
	}
}

func daysUntil(t time.Time) int {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	target := t.UTC().Truncate(24 * time.Hour)
	return int(target.Sub(today).Hours() / 24)
}

// ParseOnlyOn — "7,3,1,0" в множество дней; пусто или мусор — дефолт.
func ParseOnlyOn(raw string) map[int]struct{} {
	out := map[int]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if n, err := strconv.Atoi(part); err == nil && n >= 0 {
			out[n] = struct{}{}
		}
	}
	if len(out) == 0 {
		return map[int]struct{}{7: {}, 3: {}, 1: {}, 0: {}}
	}
	return out
}

func normalizeTemplateType(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "carready":
		return TemplateCarReady, true
	case "upcomingvisit":
		return TemplateUpcomingVisit, true
	case "partsneeded":
		return TemplatePartsNeeded, true
	}
	return "", false
}

func validTemplateType(raw string) bool {
	_, ok := normalizeTemplateType(raw)
	return ok
}
