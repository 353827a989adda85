package fare

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	wrap "github.com/Temutjin2k/fair-fares/pkg/logger/wrapper"
)

const (
	minTrikeFare  = 10.0
	trikeFareRate = 0.10 // share of the segment total
)

// DistrictError reports a district the guide has no routes for.
type DistrictError struct {
	District types.DistrictID
}

func (e *DistrictError) Error() string {
	return fmt.Sprintf("No routes found for district %d", e.District)
}

func (e *DistrictError) Is(target error) bool {
	return target == types.ErrUnknownDistrict
}

type Calculator struct {
	guide *Guide
}

func NewCalculator(guide *Guide) *Calculator {
	return &Calculator{guide: guide}
}

// Calculate prices a route from the guide. An empty destination means the home location.
// Unroutable inputs come back as *types.FieldError naming the offending field.
func (c *Calculator) Calculate(ctx context.Context, req models.CalculateRequest) (*models.FareResult, error) {
	ctx = wrap.WithAction(ctx, types.ActionCalculateFare)

	start := normalize(req.StartLocation)
	dest := normalize(req.Destination)
	if dest == "" {
		dest = types.HomeLocation
	}

	if start == "" {
		return nil, wrap.Error(ctx, types.NewFieldError(types.FieldStartLocation, "Please enter a start location"))
	}

	if !c.guide.HasDistrict(req.District) {
		return nil, wrap.Error(ctx, &DistrictError{District: req.District})
	}

	segments, ok := c.guide.Route(req.District, start, dest)
	if !ok {
		return nil, wrap.Error(ctx, c.routeError(req.District, start, dest))
	}

	var total float64
	for _, s := range segments {
		total += s.Fare
	}

	var trike float64
	if req.IncludeTrike {
		trike = Round2(math.Max(minTrikeFare, total*trikeFareRate))
		total += trike
	}

	return &models.FareResult{
		Segments:  segments,
		TrikeFare: trike,
		TotalFare: Round2(total),
	}, nil
}

// routeError blames the start when no route begins there, otherwise the destination.
func (c *Calculator) routeError(d types.DistrictID, start, dest string) *types.FieldError {
	available := strings.Join(c.guide.Locations(d), ", ")

	if !slices.Contains(c.guide.Starts(d), start) {
		return types.NewFieldError(types.FieldStartLocation,
			"Invalid start location '%s' for district %d. Available locations: %s", start, d, available)
	}
	if !slices.Contains(c.guide.Destinations(d), dest) {
		return types.NewFieldError(types.FieldDestination,
			"Invalid destination '%s' for district %d. Available locations: %s", dest, d, available)
	}
	return types.NewFieldError(types.FieldDestination,
		"No route found from '%s' to '%s' in district %d. Available locations: %s", start, dest, d, available)
}

// Round2 rounds to centavos.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
