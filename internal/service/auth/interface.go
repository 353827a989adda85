package auth

import (
	"context"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, srcode string) (*models.User, error)
}

type TokenProvider interface {
	Issue(ctx context.Context, user *models.User) (*models.AccessToken, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
