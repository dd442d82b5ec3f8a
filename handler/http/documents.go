package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/src/core/docqa"
)

type uploadResponse struct {
	SessionID string           `json:"session_id"`
	Documents []docqa.Document `json:"documents"`
}

// UploadDocuments godoc
// @Summary Upload documents into a session
// @Tags documents
// @Accept multipart/form-data
// @Param files formData file true "Up to two documents"
// @Param session_id formData string false "Existing session to add to"
// @Produce json
// @Success 200 {object} uploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /documents/upload [post]
func (h *Handler) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		sendError(c, fmt.Errorf("%w: invalid multipart form: %v", docqa.ErrBadInput, err))
		return
	}

	headers := form.File["files"]
	files := make([]docqa.UploadFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			sendError(c, fmt.Errorf("%w: failed to open %s: %v", docqa.ErrBadInput, header.Filename, err))
			return
		}
		defer f.Close()
		files = append(files, docqa.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	sessionID, documents, err := h.ingestionService.Ingest(c.Request.Context(), files, c.PostForm("session_id"))
	if err != nil {
		sendError(c, err)
		return
	}

	sendJSON(c, http.StatusOK, uploadResponse{
		SessionID: sessionID,
		Documents: documents,
	})
}
