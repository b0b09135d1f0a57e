package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	contactUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/contact"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type ContactHandler struct {
	sendMessageUseCase *contactUC.SendMessageUseCase
	logger             logger.Logger
}

func NewContactHandler(uc *contactUC.SendMessageUseCase, log logger.Logger) *ContactHandler {
	return &ContactHandler{
		sendMessageUseCase: uc,
		logger:             log,
	}
}

// SendMessage accepts the site's contact form as JSON or form-encoded data.
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	msg := service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.sendMessageUseCase.Execute(c.Request.Context(), msg); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Thank you! Your message has been sent."})
}
