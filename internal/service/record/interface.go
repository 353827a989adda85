package record

import (
	"context"
	"time"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
)

type RecordRepo interface {
	Create(ctx context.Context, rec *models.FareRecord) error
	ListBySRCode(ctx context.Context, srcode string) ([]models.FareRecord, error)
	GetForUpdate(ctx context.Context, id int64) (*models.FareRecord, error)
	Delete(ctx context.Context, id int64) error
	AverageTotal(ctx context.Context, srcode string, from, to time.Time) (float64, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	PublishFareEvent(ctx context.Context, ev models.FareEvent) error
}
