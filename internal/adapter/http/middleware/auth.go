package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

// Auth requires a bearer token issued to the SRCODE the request is about. The SRCODE
// comes from the {srcode} path segment when the route has one, otherwise from the
// srcode query parameter. Verified claims are put into the request context.
func (m *Middleware) Auth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		srcode := r.PathValue("srcode")
		if srcode == "" {
			srcode = r.URL.Query().Get("srcode")
		}
		srcode = strings.ToUpper(strings.TrimSpace(srcode))
		if srcode == "" {
			errorResponse(w, http.StatusBadRequest, "srcode is required")
			return
		}
		ctx = wrap.WithUserID(ctx, srcode)

		token, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := m.auth.Authorize(ctx, token, srcode)
		if err != nil {
			m.log.Warn(wrap.ErrorCtx(ctx, err), "request rejected", "error", err.Error())
			if errors.Is(err, types.ErrForbidden) {
				errorResponse(w, http.StatusForbidden, "token does not belong to this SRCODE")
				return
			}
			errorResponse(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(models.WithClaims(ctx, claims)))
	})
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}
