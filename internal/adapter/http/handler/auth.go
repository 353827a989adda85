package handler

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/fair-fares/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/metrics"
	"github.com/Temutjin2k/fair-fares/pkg/validator"
)

type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.Profile, error)
	Login(ctx context.Context, srcode, password string) (*models.LoginResponse, error)
	Profile(ctx context.Context, srcode string) (*models.Profile, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Signup godoc
// @Summary      Register a student
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "Signup payload"
// @Success      200  {object}  models.Profile
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /auth/signup [post]
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionSignup)

	req := &dto.SignupRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateSignup(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	profile, err := h.auth.Signup(ctx, req.ToModel())
	if err != nil {
		if GetCode(err) >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Login godoc
// @Summary      Authenticate with SRCODE and password
// @Description  Bad credentials answer 200 with success=false and a message.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200  {object}  models.LoginResponse
// @Failure      429  {object}  map[string]string
// @Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLogin)

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	resp, err := h.auth.Login(ctx, req.SRCode, req.Password)
	metrics.RecordLogin(resp != nil && resp.Success, err)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Profile godoc
// @Summary      Profile of the authenticated student
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Param        srcode query string true "SRCODE"
// @Success      200  {object}  models.Profile
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionProfile)

	profile, err := h.auth.Profile(ctx, srcodeOf(r))
	if err != nil {
		if GetCode(err) >= http.StatusInternalServerError {
			h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get profile", err)
		}
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, profile, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// srcodeOf returns the caller's verified SRCODE. Routes using it sit behind the auth middleware.
func srcodeOf(r *http.Request) string {
	if c := models.ClaimsFromContext(r.Context()); c != nil {
		return c.SRCode
	}
	return ""
}
