package middleware

import (
	"net/http"

	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestID puts the caller's X-Request-ID, or a fresh one, into the log context and echoes it back.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(wrap.WithRequestID(r.Context(), id)))
	})
}
