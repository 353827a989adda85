package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and validates HS256 access tokens whose subject is the SRCODE.
type TokenService struct {
	AccessTTL time.Duration
	secret    string
	now       func() time.Time
	log       logger.Logger
}

func NewTokenService(secret string, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		AccessTTL: accessTTL,
		secret:    secret,
		now:       time.Now,
		log:       log,
	}
}

func (s *TokenService) getSecret() string {
	return s.secret
}

func (s *TokenService) Issue(ctx context.Context, user *models.User) (*models.AccessToken, error) {
	ctx = wrap.WithAction(ctx, "issue_token")
	if user == nil {
		return nil, wrap.Error(ctx, errors.New("user is nil"))
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.AccessTTL)

	claims := NewAccessClaim(user, issuedAt, expiresAt, uuid.NewString())
	token, err := s.signClaims(claims)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return &models.AccessToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate validates the given JWT token string, returning the custom claims if valid.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	claims := &models.CustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.getSecret()), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}
	if !parsed.Valid || claims.SRCode == "" || claims.Subject != claims.SRCode {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	return claims, nil
}

func (s *TokenService) signClaims(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.getSecret()))
}

func NewAccessClaim(user *models.User, issuedAt, expiresAt time.Time, tokenID string) *models.CustomClaims {
	return &models.CustomClaims{
		SRCode: user.SRCode,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.SRCode,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}
