package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

type ServiceTypeHandler struct {
	types *services.ServiceTypeService
}

func NewServiceTypeHandler(types *services.ServiceTypeService) *ServiceTypeHandler {
	return &ServiceTypeHandler{types: types}
}

func (h *ServiceTypeHandler) List(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	list, err := h.types.List(workshopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []*models.ServiceType{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *ServiceTypeHandler) Create(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"service_type_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.types.Create(workshopID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrServiceTypeExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Service type already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *ServiceTypeHandler) Delete(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.types.Delete(workshopID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service type not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
