package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// Notification handles the direct push notification endpoint.
type Notification struct {
	pushSender model.PushSender
	logger     *logger.Logger
}

// NewNotification creates a new Notification handler.
func NewNotification(pushSender model.PushSender, logger *logger.Logger) *Notification {
	return &Notification{pushSender: pushSender, logger: logger}
}

type pushRequest struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Send delivers a push notification to the given device token.
func (h *Notification) Send(c *gin.Context) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}
	if req.Token == "" {
		handleError(c, model.NewInvalidInput("device token is required"))
		return
	}

	err := h.pushSender.SendPush(c.Request.Context(), model.PushMessage{
		Token: req.Token,
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		h.logger.Error("Notification handler: push delivery failed", "error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Notification sent successfully", nil)
}
