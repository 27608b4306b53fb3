package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KoTeHok22/Locus-sub001/internal/domain"
	"github.com/KoTeHok22/Locus-sub001/internal/service"
)

// DocumentHandler handles delivery note scan endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Recognize handles POST /api/v1/documents/recognize.
// The scan is stored and a recognition job is queued; the response carries
// the document id the caller polls with GET /documents/:id/status.
func (h *DocumentHandler) Recognize(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(c.PostForm("project_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "PROJECT_REQUIRED", "project_id form field is required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "FILE_REQUIRED", "file form field is required")
		return
	}
	defer func() { _ = file.Close() }()

	doc, err := h.documentService.SubmitScan(c.Request.Context(), &service.SubmitScanInput{
		ProjectID:   projectID,
		UploaderID:  userID,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		FileSize:    header.Size,
		Body:        file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, gin.H{"document_id": doc.ID})
}

// Status handles GET /api/v1/documents/:id/status
func (h *DocumentHandler) Status(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.documentService.GetStatus(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Get handles GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Update handles PUT /api/v1/documents/:id. It replaces the recognized data
// with the user's corrections.
func (h *DocumentHandler) Update(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		RecognizedData domain.RecognizedData `json:"recognized_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.documentService.UpdateRecognizedData(c.Request.Context(), docID, input.RecognizedData)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// ScanURL handles GET /api/v1/documents/:id/scan
func (h *DocumentHandler) ScanURL(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.documentService.GetScanURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// ListByProject handles GET /api/v1/projects/:id/documents
func (h *DocumentHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.ListByProject(c.Request.Context(), projectID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}
