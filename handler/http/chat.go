package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa/src/core/docqa"
)

type chatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question" binding:"required"`
	// DocumentIDs restricts retrieval to specific documents. Absent
	// means unrestricted; an explicitly empty list matches nothing.
	DocumentIDs []string `json:"document_ids"`
}

// QueryDocuments godoc
// @Summary Answer a question constrained to the session's documents
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatRequest true "Question parameters"
// @Success 200 {object} docqa.Answer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /chat/query [post]
func (h *Handler) QueryDocuments(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, fmt.Errorf("%w: %v", docqa.ErrBadInput, err))
		return
	}

	answer, err := h.chatService.Answer(c.Request.Context(), req.SessionID, req.Question, req.DocumentIDs)
	if err != nil {
		sendError(c, err)
		return
	}

	sendJSON(c, http.StatusOK, answer)
}
