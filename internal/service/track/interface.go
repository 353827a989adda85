package track

import (
	"context"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

type FareGateway interface {
	Calculate(ctx context.Context, who models.SessionIdentity, req models.CalculateRequest) (*models.FareResult, error)
	Save(ctx context.Context, who models.SessionIdentity, req models.SaveRequest) (*models.SaveResponse, error)
}

type LocationCatalog interface {
	LocationsFor(d types.DistrictID) []string
}
