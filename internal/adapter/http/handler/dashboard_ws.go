package handler

import (
	"context"
	"net/http"
	"strings"

	wshandler "github.com/Temutjin2k/fair-fares/internal/adapter/http/ws"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/Temutjin2k/fair-fares/pkg/metrics"
	ws "github.com/Temutjin2k/fair-fares/pkg/wsHub"
	"github.com/gorilla/websocket"
)

type Dashboard struct {
	hub         *ws.ConnectionHub
	upgrader    websocket.Upgrader
	serviceName string
	l           logger.Logger
}

func NewDashboard(hub *ws.ConnectionHub, serviceName string, l logger.Logger) *Dashboard {
	return &Dashboard{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the CLI sends no Origin header, browsers on other origins have no bearer token
			CheckOrigin: func(*http.Request) bool { return true },
		},
		serviceName: serviceName,
		l:           l,
	}
}

// HandleWS godoc
// @Summary      Live dashboard updates
// @Description  Upgrades to a websocket that streams fare.record.saved and fare.record.deleted events for the SRCODE.
// @Tags         Dashboard
// @Security     BearerAuth
// @Param        srcode path string true "SRCODE"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws/dashboard/{srcode} [get]
func (h *Dashboard) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionDashboardWS)
	owner := srcodeOf(r)

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the failure response
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	// keep the log context but not the request cancellation; Listen decides when the connection ends
	conn := ws.NewConn(context.WithoutCancel(ctx), strings.ToUpper(owner), wsConn)
	if err := h.hub.Add(conn); err != nil {
		wshandler.Reject(conn, err.Error())
		return
	}

	gauge := metrics.WebSocketConnectionsGauge.WithLabelValues(h.serviceName)
	gauge.Inc()
	defer gauge.Dec()

	h.l.Info(ctx, "dashboard connected", "conn_id", conn.ID().String())

	if err := conn.Listen(); err != nil {
		h.l.Debug(ctx, "dashboard connection ended", "error", err.Error())
	}
	_ = h.hub.Remove(conn)

	h.l.Info(ctx, "dashboard disconnected", "conn_id", conn.ID().String())
}
