package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"autoclient/internal/services"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// @Summary      Выставить счёт
// @Tags         Invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input  body      services.InvoiceCreateRequest  true  "Данные счёта"
// @Success      201    {object}  models.Invoice
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	var req services.InvoiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inv, err := h.invoices.Create(workshopID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// Счёт по завершённому обслуживанию; тело опционально, поля перекрывают значения по умолчанию.
func (h *InvoiceHandler) CreateFromService(c *gin.Context) {
	workshopID, ok := mustWorkshopID(c)
	if !ok {
		return
	}
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return
	}
	var overrides *services.InvoiceCreateRequest
	if c.Request.ContentLength > 0 {
		var req services.InvoiceCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		overrides = &req
	}
	inv, err := h.invoices.CreateFromService(workshopID, serviceID, overrides)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		case errors.Is(err, services.ErrServiceNotInvoicable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Service is not completed yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	if _, ok := mustWorkshopID(c); !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Отдаёт готовый PDF. Маршрут открыт без токена, чтобы ссылку из письма
// можно было открыть напрямую.
func (h *InvoiceHandler) Pdf(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(h.invoices.PdfPath(inv))
}
