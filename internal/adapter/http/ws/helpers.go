package wshandler

import (
	ws "github.com/Temutjin2k/fair-fares/pkg/wsHub"
)

func errorResponse(conn *ws.Conn, message any) error {
	return conn.Send(map[string]any{"error": message})
}

// Reject tells a freshly upgraded client why it is being dropped, then closes it.
func Reject(conn *ws.Conn, message string) {
	_ = errorResponse(conn, message)
	_ = conn.Close()
}
