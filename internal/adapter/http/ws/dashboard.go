package wshandler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	ws "github.com/Temutjin2k/fair-fares/pkg/wsHub"
)

// DashboardHub relays fare events to the owner's open dashboards.
type DashboardHub struct {
	connections *ws.ConnectionHub
	l           logger.Logger
}

func NewDashboardHub(connHub *ws.ConnectionHub, l logger.Logger) *DashboardHub {
	return &DashboardHub{
		connections: connHub,
		l:           l,
	}
}

// Notify pushes ev to every dashboard of ev.SRCode. Nobody watching is not an error.
func (h *DashboardHub) Notify(ctx context.Context, ev models.FareEvent) error {
	const op = "DashboardHub.Notify"

	n, err := h.connections.SendTo(ctx, ev.SRCode, ev)
	if errors.Is(err, ws.ErrConnIsNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	h.l.Debug(ctx, "fare event relayed", "type", ev.Type.String(), "connections", n)
	return nil
}
