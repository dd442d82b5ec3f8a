package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/src/core/docqa"
)

type Handler struct {
	ingestionService docqa.IngestionService
	chatService      docqa.ChatService
}

func NewHandler(ingestionService docqa.IngestionService, chatService docqa.ChatService) *Handler {
	return &Handler{
		ingestionService: ingestionService,
		chatService:      chatService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)

	api := r.Group("/api/v1")
	api.POST("/documents/upload", h.UploadDocuments)
	api.POST("/chat/query", h.QueryDocuments)
}

// Root godoc
// @Summary Service banner
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "docqa backend is running."})
}

// Common error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendError maps the service error kinds onto HTTP statuses. Upstream
// capability failures are surfaced as 502 so callers can tell them
// apart from faults in this service.
func sendError(c *gin.Context, err error) {
	var code string
	var status int
	switch {
	case errors.Is(err, docqa.ErrBadInput):
		code = "BAD_INPUT"
		status = http.StatusBadRequest
	case errors.Is(err, docqa.ErrUnsupportedFormat):
		code = "UNSUPPORTED_FORMAT"
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, docqa.ErrSessionNotFound):
		code = "SESSION_NOT_FOUND"
		status = http.StatusNotFound
	case errors.Is(err, docqa.ErrMissingCapability):
		code = "MISSING_CAPABILITY"
		status = http.StatusInternalServerError
	case errors.Is(err, docqa.ErrUpstream):
		code = "UPSTREAM_FAILURE"
		status = http.StatusBadGateway
	default:
		code = "INTERNAL_ERROR"
		status = http.StatusInternalServerError
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
