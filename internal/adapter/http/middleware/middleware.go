package middleware

import (
	"context"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
)

type (
	AuthService interface {
		Authorize(ctx context.Context, token, srcode string) (*models.CustomClaims, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
