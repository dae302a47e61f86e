package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// @Summary      Сводка по мастерской за период
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        from      query  string  false  "Начало периода (YYYY-MM-DD)"
// @Param        to        query  string  false  "Конец периода (YYYY-MM-DD)"
// @Param        workerId  query  int     false  "Фильтр по механику"
// @Success      200  {object}  models.DashboardSummary
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	now := time.Now()
	from, ok := queryDate(c, "from", now.AddDate(0, -1, 0))
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", now)
	if !ok {
		return
	}
	var workerID *int64
	if raw := c.Query("workerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workerId"})
			return
		}
		workerID = &id
	}
	summary, err := h.dashboard.Summary(workshopID, from, to, workerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) TodaySummary(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	summary, err := h.dashboard.TodaySummary(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) TopClients(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	month, year, ok := monthYear(c)
	if !ok {
		return
	}
	list, err := h.dashboard.TopClients(workshopID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []models.ClientServiceCount{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *DashboardHandler) TopServices(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	month, year, ok := monthYear(c)
	if !ok {
		return
	}
	list, err := h.dashboard.TopServices(workshopID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []models.ServiceTypeCount{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *DashboardHandler) ServicesPerDay(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	now := time.Now()
	from, ok := queryDate(c, "from", now.AddDate(0, 0, -30))
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", now)
	if !ok {
		return
	}
	list, err := h.dashboard.ServicesPerDay(workshopID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []models.DayCount{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *DashboardHandler) AverageDeliveryTime(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	hours, err := h.dashboard.AverageDeliveryHours(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_hours": hours})
}

func (h *DashboardHandler) MonthlyIncome(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	month, year, ok := monthYear(c)
	if !ok {
		return
	}
	total, err := h.dashboard.MonthlyIncome(workshopID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "year": year, "total_income": total})
}

func (h *DashboardHandler) PendingServices(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	list, err := h.dashboard.PendingServices(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []*models.ServiceDetail{}
	}
	c.JSON(http.StatusOK, list)
}

// month/year по умолчанию — текущие.
func monthYear(c *gin.Context) (int, int, bool) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if raw := c.Query("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return 0, 0, false
		}
		month = v
	}
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 2000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return 0, 0, false
		}
		year = v
	}
	return month, year, true
}
