package server

import (
	"github.com/Temutjin2k/fair-fares/docs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (a *API) setupRoutes() {
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)

	a.setupAuthRoutes()
	a.setupFareRoutes()

	a.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName())))
	a.mux.Handle("GET /metrics", promhttp.Handler())
}

func (a *API) setupAuthRoutes() {
	a.mux.HandleFunc("POST /auth/signup", a.routes.auth.Signup)
	a.mux.Handle("POST /auth/login", a.limiter.Limit(a.routes.auth.Login)) // throttled per client IP
	a.mux.Handle("GET /auth/me", a.m.Auth(a.routes.auth.Profile))
}

func (a *API) setupFareRoutes() {
	a.mux.Handle("POST /fare/calculate", a.m.Auth(a.routes.fare.Calculate))
	a.mux.Handle("POST /fare/save", a.m.Auth(a.routes.fare.Save))
	a.mux.Handle("GET /fare/user-history", a.m.Auth(a.routes.fare.History))
	a.mux.Handle("DELETE /fare/delete/{id}", a.m.Auth(a.routes.fare.Delete))
	a.mux.Handle("GET /fare/weekly-average", a.m.Auth(a.routes.fare.WeeklyAverage))
	a.mux.Handle("GET /ws/dashboard/{srcode}", a.m.Auth(a.routes.dashboard.HandleWS))
}
