package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/models"
	"autoclient/internal/services"
)

type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// @Summary      Список клиентов
// @Tags         Clients
// @Produce      json
// @Security     BearerAuth
// @Param        search  query  string  false  "Поиск по имени"
// @Success      200  {array}  models.Client
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	list, err := h.clients.List(workshopID, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if list == nil {
		list = []*models.Client{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Клиент по ID
// @Tags         Clients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "ID клиента"
// @Success      200  {object}  models.Client
// @Failure      404  {object}  map[string]string
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	client, err := h.clients.GetByID(workshopID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary      Создать клиента
// @Tags         Clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      models.Client  true  "Данные клиента"
// @Success      201      {object}  models.Client
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.WorkshopID = workshopID
	if err := h.clients.Create(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	existing, err := h.clients.GetByID(workshopID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}

	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	client.ID = id
	client.WorkshopID = workshopID
	if err := h.clients.Update(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

// @Summary      Удалить клиента
// @Description  Отказ 409, если за клиентом числятся автомобили
// @Tags         Clients
// @Security     BearerAuth
// @Param        id  path  int  true  "ID клиента"
// @Success      204
// @Failure      409  {object}  map[string]string
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(workshopID, id); err != nil {
		if errors.Is(err, services.ErrClientHasVehicles) {
			c.JSON(http.StatusConflict, gin.H{"error": "Client has registered vehicles"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
