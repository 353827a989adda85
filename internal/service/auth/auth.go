package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/passhash"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	hash         func(string) (string, error)
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		hash:         passhash.HashPassword,
		log:          log,
	}
}

// NormalizeSRCode trims and upper-cases an SRCODE so lookups are consistent.
func NormalizeSRCode(srcode string) string {
	return strings.ToUpper(strings.TrimSpace(srcode))
}

// Signup registers a student. Name and college are stored trimmed.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.Profile, error) {
	ctx = wrap.WithAction(ctx, types.ActionSignup)

	srcode := NormalizeSRCode(req.SRCode)
	password := strings.TrimSpace(req.Password)
	if srcode == "" || password == "" {
		return nil, wrap.Error(ctx, types.ErrCredentialsNeeded)
	}
	ctx = wrap.WithUserID(ctx, srcode)

	existing, err := s.userRepo.Get(ctx, srcode)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to look up user", err)
		return nil, wrap.Error(ctx, ErrUnexpected)
	}
	if existing != nil {
		return nil, wrap.Error(ctx, types.ErrSRCodeTaken)
	}

	hash, err := s.hash(password)
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return nil, wrap.Error(ctx, ErrUnexpected)
	}

	user := &models.User{
		SRCode:  srcode,
		Name:    strings.TrimSpace(req.Name),
		College: strings.TrimSpace(req.College),
	}
	user.SetPassword(hash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, types.ErrSRCodeTaken) {
			return nil, wrap.Error(ctx, err)
		}
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to save user", err)
		return nil, wrap.Error(ctx, ErrUnexpected)
	}

	s.log.Info(ctx, "student registered")

	p := user.Profile()
	return &p, nil
}

// Login never fails on bad credentials: it answers Success=false with a message.
// Errors are reserved for infrastructure failures.
func (s *AuthService) Login(ctx context.Context, srcode, password string) (*models.LoginResponse, error) {
	ctx = wrap.WithAction(ctx, types.ActionLogin)

	srcode = NormalizeSRCode(srcode)
	password = strings.TrimSpace(password)
	if srcode == "" || password == "" {
		return &models.LoginResponse{Success: false, Message: MsgCredentialsRequired}, nil
	}
	ctx = wrap.WithUserID(ctx, srcode)

	user, err := s.userRepo.Get(ctx, srcode)
	if errors.Is(err, types.ErrUserNotFound) {
		return &models.LoginResponse{Success: false, Message: MsgIncorrectLogin}, nil
	}
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if ok, err := passhash.VerifyPassword(password, user.GetPassword()); err != nil || !ok {
		if err != nil {
			s.log.Warn(ctx, "stored password hash is unreadable", "error", err.Error())
		}
		return &models.LoginResponse{Success: false, Message: MsgIncorrectLogin}, nil
	}

	token, err := s.tokenService.Issue(ctx, user)
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to issue token", err)
		return nil, wrap.Error(ctx, ErrTokenGenerateFail)
	}

	profile := user.Profile()
	return &models.LoginResponse{
		Success: true,
		User:    &profile,
		Token:   token.Token,
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, srcode string) (*models.Profile, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, types.ActionProfile), NormalizeSRCode(srcode))

	user, err := s.userRepo.Get(ctx, NormalizeSRCode(srcode))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	p := user.Profile()
	return &p, nil
}

// Authorize checks that token is valid and was issued to srcode.
func (s *AuthService) Authorize(ctx context.Context, token, srcode string) (*models.CustomClaims, error) {
	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if claims.SRCode != NormalizeSRCode(srcode) {
		return nil, wrap.Error(wrap.WithUserID(ctx, claims.SRCode), types.ErrForbidden)
	}
	return claims, nil
}
