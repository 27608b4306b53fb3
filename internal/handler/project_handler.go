package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KoTeHok22/Locus-sub001/internal/service"
)

// ProjectHandler handles construction project endpoints.
type ProjectHandler struct {
	projectService  service.ProjectService
	deliveryService service.DeliveryService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService service.ProjectService, deliveryService service.DeliveryService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		deliveryService: deliveryService,
	}
}

// List handles GET /api/v1/projects
func (h *ProjectHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	projects, total, err := h.projectService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, projects, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, project)
}

// Nearest handles GET /api/v1/projects/nearest?latitude=..&longitude=..
// It suggests the project whose site is closest to the caller's position.
func (h *ProjectHandler) Nearest(c *gin.Context) {
	latitude, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "latitude query parameter is required")
		return
	}
	longitude, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "longitude query parameter is required")
		return
	}

	project, distance, err := h.deliveryService.SuggestProject(c.Request.Context(), latitude, longitude)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"project":         project,
		"distance_meters": distance,
	})
}
