package models

import (
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

// FareEvent is published on the fare topic after a record is saved or deleted,
// and relayed to the owner's dashboard websocket.
type FareEvent struct {
	Type          types.FareEvent `json:"type"`
	SRCode        string          `json:"srcode"`
	RecordID      int64           `json:"record_id"`
	WeeklyAverage WeeklyAverage   `json:"weekly_average"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
