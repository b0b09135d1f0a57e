package contact

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/application/service"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type SendMessageUseCase struct {
	mailer   service.Mailer
	validate *validator.Validate
	logger   logger.Logger
}

func NewSendMessageUseCase(mailer service.Mailer, log logger.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{
		mailer:   mailer,
		validate: validator.New(),
		logger:   log,
	}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, msg service.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := uc.validate.Struct(msg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "email" {
				return apperror.NewValidation("Please enter a valid email address", err)
			}
			return apperror.NewValidation("Please fill in all required fields", err)
		}
		return apperror.NewValidation("Invalid contact message", err)
	}

	if err := uc.mailer.Send(ctx, msg); err != nil {
		uc.logger.Error("Failed to send contact message", err, zap.String("email", msg.Email))
		return apperror.NewUnavailable("message could not be sent, please try again later", err)
	}
	uc.logger.Info("Contact message accepted", zap.String("email", msg.Email))
	return nil
}
