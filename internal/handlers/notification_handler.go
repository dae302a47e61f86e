package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/repositories"
	"autoclient/internal/services"
)

const maxLogsLimit = 500

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) GetSettings(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	set, err := h.notifications.GetSettings(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var set models.NotificationSettings
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	saved, err := h.notifications.UpdateSettings(workshopID, &set)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// @Summary      Отправить письмо клиенту по шаблону
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body  services.SendRequest  true  "Шаблон и получатель"
// @Success      200    {object}  map[string]interface{}
// @Failure      502    {object}  map[string]string
// @Router       /notifications/send [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var req services.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logID, err := h.notifications.Send(workshopID, req)
	if err != nil {
		h.sendError(c, err, logID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "log_id": logID})
}

func (h *NotificationHandler) ResendCompleted(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return
	}
	logID, err := h.notifications.ResendCompleted(workshopID, serviceID)
	if err != nil {
		h.sendError(c, err, logID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "log_id": logID})
}

func (h *NotificationHandler) SendUpcoming(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return
	}
	enforceWindow := c.DefaultQuery("enforceWindow", "true") != "false"
	maxDaysAhead := 60
	if raw := c.Query("maxDaysAhead"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxDaysAhead"})
			return
		}
		maxDaysAhead = v
	}
	if err := h.notifications.SendUpcomingForService(workshopID, serviceID, enforceWindow, maxDaysAhead); err != nil {
		h.sendError(c, err, 0)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

func (h *NotificationHandler) Upcoming(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	now := time.Now()
	from, ok := queryDate(c, "from", now)
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", now.AddDate(0, 0, 30))
	if !ok {
		return
	}
	list, err := h.notifications.PreviewUpcoming(workshopID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []services.UpcomingPreview{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *NotificationHandler) SendUpcomingBulk(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var req struct {
		IDs []int64 `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.notifications.SendUpcomingBulk(workshopID, req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Скан напоминаний: dryRun=true возвращает список без отправки.
func (h *NotificationHandler) ScanUpcoming(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
			return
		}
		days = v
	}
	dryRun := c.Query("dryRun") == "true"
	preview, res, err := h.notifications.ScanUpcoming(workshopID, days, c.Query("onlyOn"), dryRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if dryRun {
		if preview == nil {
			preview = []services.UpcomingPreview{}
		}
		c.JSON(http.StatusOK, gin.H{"dry_run": true, "matches": preview})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *NotificationHandler) Logs(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var f repositories.EmailLogFilter
	if raw := c.Query("clientId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid clientId"})
			return
		}
		f.ClientID = &id
	}
	var okDate bool
	if f.DateFrom, okDate = queryDate(c, "from", time.Time{}); !okDate {
		return
	}
	if f.DateTo, okDate = queryDate(c, "to", time.Time{}); !okDate {
		return
	}
	f.Status = c.DefaultQuery("status", "All")
	f.TemplateType = c.DefaultQuery("template", "All")
	f.Limit = 100
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		if v > maxLogsLimit {
			v = maxLogsLimit
		}
		f.Limit = v
	}
	logs, err := h.notifications.Logs(workshopID, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if logs == nil {
		logs = []services.EmailLogView{}
	}
	c.JSON(http.StatusOK, logs)
}

func (h *NotificationHandler) sendError(c *gin.Context, err error, logID int64) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
	case errors.Is(err, services.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
	case errors.Is(err, services.ErrServiceNotCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service is not completed"})
	case errors.Is(err, services.ErrClientNoEmail):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client has no email address"})
	case errors.Is(err, services.ErrInvalidTemplateType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown template type"})
	case errors.Is(err, services.ErrInvalidEmailAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
	case errors.Is(err, services.ErrNoNextServiceDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service has no next service date"})
	case errors.Is(err, services.ErrOutsideReminderWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Next service date is outside the reminder window"})
	case errors.Is(err, services.ErrSendFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Email delivery failed", "log_id": logID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
