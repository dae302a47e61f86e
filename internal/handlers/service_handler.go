package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

type ServiceHandler struct {
	records *services.ServiceRecordService
}

func NewServiceHandler(records *services.ServiceRecordService) *ServiceHandler {
	return &ServiceHandler{records: records}
}

// @Summary      Заезды мастерской
// @Tags         Services
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.ServiceDetail
// @Router       /services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	list, err := h.records.List(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []*models.ServiceDetail{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	detail, err := h.records.GetByID(workshopID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// @Summary      История по автомобилю
// @Tags         Services
// @Produce      json
// @Security     BearerAuth
// @Param        vehicleId  path  int  true  "ID автомобиля"
// @Success      200  {array}  models.ServiceDetail
// @Router       /services/by-vehicle/{vehicleId} [get]
func (h *ServiceHandler) ListByVehicle(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	vehicleID, ok := paramID(c, "vehicleId")
	if !ok {
		return
	}
	list, err := h.records.ListByVehicle(workshopID, vehicleID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*models.ServiceDetail{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Открыть заезд
// @Tags         Services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.ServiceRecord  true  "Данные заезда"
// @Success      201      {object}  models.ServiceRecord
// @Router       /services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var rec models.ServiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.records.Create(workshopID, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// @Summary      Закрыть заезд (выдача автомобиля)
// @Description  Проставляет exit_date/cost; автоматизация может отправить письмо клиенту
// @Tags         Services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                              true  "ID заезда"
// @Param        request  body  services.CompleteServiceRequest  true  "Итоги работы"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /services/{id}/complete [put]
func (h *ServiceHandler) Complete(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CompleteServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.records.Complete(workshopID, id, req); err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var rec models.ServiceRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.ID = id
	if err := h.records.Update(workshopID, &rec); err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PATCH /services/:id/notes
func (h *ServiceHandler) UpdateNotes(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		MechanicNotes string `json:"mechanic_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.records.UpdateNotes(workshopID, id, req.MechanicNotes); err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
