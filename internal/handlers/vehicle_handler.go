package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

type VehicleHandler struct {
	vehicles *services.VehicleService
}

func NewVehicleHandler(vehicles *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// @Summary      Список автомобилей мастерской
// @Tags         Vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "Поиск по номеру/марке"
// @Success      200  {array}  models.Vehicle
// @Router       /vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	list, err := h.vehicles.List(workshopID, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []*models.Vehicle{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	v, err := h.vehicles.GetByID(workshopID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary      Поиск по госномеру
// @Tags         Vehicles
// @Produce      json
// @Security     BearerAuth
// @Param        plate  query     string  true  "Номерной знак"
// @Success      200    {object}  models.Vehicle
// @Failure      404    {object}  map[string]string
// @Router       /vehicles/by-plate [get]
func (h *VehicleHandler) GetByPlate(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	plate := strings.TrimSpace(c.Query("plate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plate is required"})
		return
	}
	v, err := h.vehicles.GetByPlate(workshopID, plate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if v == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListByClient обслуживает и /vehicles/by-client/:clientId, и /clients/:id/vehicles.
func (h *VehicleHandler) ListByClient(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	name := "clientId"
	if c.Param(name) == "" {
		name = "id"
	}
	clientID, ok := paramID(c, name)
	if !ok {
		return
	}
	list, err := h.vehicles.ListByClient(workshopID, clientID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*models.Vehicle{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Зарегистрировать автомобиль
// @Tags         Vehicles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.Vehicle  true  "Данные автомобиля"
// @Success      201      {object}  models.Vehicle
// @Failure      409      {object}  map[string]string
// @Router       /vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var v models.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.vehicles.Create(workshopID, &v); err != nil {
		if errors.Is(err, services.ErrPlateTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Plate number already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VehicleHandler) Update(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var v models.Vehicle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v.ID = id
	if err := h.vehicles.Update(workshopID, &v); err != nil {
		if errors.Is(err, services.ErrPlateTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Plate number already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VehicleHandler) Delete(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.vehicles.Delete(workshopID, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
