package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
	"github.com/gorilla/websocket"
)

// WatchDashboard streams fare events for who until ctx is done or the server closes the stream.
func (c *Client) WatchDashboard(ctx context.Context, who models.SessionIdentity, fn func(models.FareEvent)) error {
	const op = "Client.WatchDashboard"
	ctx = wrap.WithAction(ctx, types.ActionDashboardWS)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: invalid base url: %w", op, err))
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/dashboard/" + url.PathEscape(who.SRCode)

	header := http.Header{}
	if who.Token != "" {
		header.Set("Authorization", "Bearer "+who.Token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return wrap.Error(ctx, fmt.Errorf("%s: %w", op, &APIError{Status: resp.StatusCode}))
		}
		return wrap.Error(ctx, fmt.Errorf("%s: failed to dial: %w", op, err))
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event models.FareEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return wrap.Error(ctx, fmt.Errorf("%s: failed to read event: %w", op, err))
		}
		fn(event)
	}
}
