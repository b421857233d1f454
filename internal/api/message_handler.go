package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supacoach/coach-api/internal/apperr"
	"supacoach/coach-api/internal/domain"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
	logg           *logger.Logger
}

func NewMessageHandler(messageService service.MessageService, logg *logger.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logg: logg}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req domain.MessageInput
	if !bindJSON(c, h.logg, &req) {
		return
	}
	msg, err := h.messageService.Send(c.Request.Context(), mustActor(c), req)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetConversation expects ?with=<userId> and an optional ?limit=.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	other, ok := uuidQuery(c, h.logg, "with")
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, h.logg, apperr.Validation("validation failed", map[string]string{"limit": "must be a non-negative integer"}))
			return
		}
		limit = n
	}
	msgs, err := h.messageService.Conversation(c.Request.Context(), mustActor(c), other, limit)
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	id, ok := uuidParam(c, h.logg, "messageId")
	if !ok {
		return
	}
	if err := h.messageService.MarkRead(c.Request.Context(), mustActor(c), id); err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(c.Request.Context(), mustActor(c))
	if err != nil {
		abortWithError(c, h.logg, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
