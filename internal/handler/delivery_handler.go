package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
)

// DeliveryHandler handles material delivery endpoints.
type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

type createDeliveryRequest struct {
	DocumentID   string            `json:"document_id" binding:"required"`
	Items        []domain.LineItem `json:"items"`
	DeliveryDate string            `json:"delivery_date"`
	Latitude     *float64          `json:"latitude"`
	Longitude    *float64          `json:"longitude"`
}

// Create handles POST /api/v1/projects/:id/deliveries
func (h *DeliveryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req createDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document_id")
		return
	}

	input := &service.ConfirmDeliveryInput{
		ProjectID:  projectID,
		DocumentID: docID,
		ForemanID:  userID,
		Items:      req.Items,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if req.DeliveryDate != "" {
		d, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "delivery_date must be YYYY-MM-DD")
			return
		}
		input.DeliveryDate = &d
	}

	delivery, err := h.deliveryService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, delivery)
}

// List handles GET /api/v1/projects/:id/deliveries
func (h *DeliveryHandler) List(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	deliveries, total, err := h.deliveryService.ListByProject(c.Request.Context(), projectID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, deliveries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Export handles GET /api/v1/projects/:id/deliveries/export
func (h *DeliveryHandler) Export(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.deliveryService.ExportReport(c.Request.Context(), projectID)
	if err != nil {
		HandleError(c, err)
		return
	}

	fileName := fmt.Sprintf("deliveries-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
