package fare

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
	"github.com/Temutjin2k/fair-fares/internal/service/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuide = `
# comment
district 1:
Lemery - BSU:
Lemery to Grand Terminal,bus,15.00
Grand Terminal to BSU,jeepney,20.00
Balayan - BSU:
Balayan to Grand Terminal,bus,106.00
Grand Terminal to BSU,jeepney,13.00
Lemery - Grand Terminal:
Lemery to Grand Terminal,bus,15.00
not a segment
Bad fare,bus,abc

District 2:
Bauan - BSU:
Bauan to BSU,jeepney,28.00
`

func testCalculator(t *testing.T) *Calculator {
	t.Helper()
	g, err := ParseGuide(strings.NewReader(testGuide))
	require.NoError(t, err)
	return NewCalculator(g)
}

func TestParseGuide(t *testing.T) {
	g, err := ParseGuide(strings.NewReader(testGuide))
	require.NoError(t, err)

	segments, ok := g.Route(1, "lemery", "bsu")
	require.True(t, ok)
	assert.Equal(t, []models.FareSegment{
		{Description: "Lemery to Grand Terminal", Vehicle: "bus", Fare: 15},
		{Description: "Grand Terminal to BSU", Vehicle: "jeepney", Fare: 20},
	}, segments)

	segments, ok = g.Route(1, "Lemery", "Grand Terminal")
	require.True(t, ok)
	assert.Len(t, segments, 1, "malformed lines are skipped")

	assert.True(t, g.HasDistrict(2))
	assert.False(t, g.HasDistrict(3))
	assert.Equal(t, []string{"BALAYAN", "BSU", "GRAND TERMINAL", "LEMERY"}, g.Locations(1))
	assert.Equal(t, []string{"BALAYAN", "LEMERY"}, g.Starts(1))
}

func TestParseGuide_Empty(t *testing.T) {
	_, err := ParseGuide(strings.NewReader("# nothing here\n"))
	assert.ErrorIs(t, err, ErrEmptyGuide)
}

func TestRoute_ReturnsCopy(t *testing.T) {
	g, err := ParseGuide(strings.NewReader(testGuide))
	require.NoError(t, err)

	segments, _ := g.Route(1, "Lemery", "BSU")
	segments[0].Fare = 0

	again, _ := g.Route(1, "Lemery", "BSU")
	assert.Equal(t, 15.0, again[0].Fare)
}

func TestCalculate_FixtureWithTrike(t *testing.T) {
	c := testCalculator(t)

	res, err := c.Calculate(context.Background(), models.CalculateRequest{
		District: 1, StartLocation: " lemery ", Destination: "", IncludeTrike: true,
	})
	require.NoError(t, err)

	assert.Len(t, res.Segments, 2)
	assert.Equal(t, 10.0, res.TrikeFare, "minimum trike fare")
	assert.Equal(t, 45.0, res.TotalFare)
}

func TestCalculate_TrikeIsTenPercentAboveMinimum(t *testing.T) {
	c := testCalculator(t)

	res, err := c.Calculate(context.Background(), models.CalculateRequest{
		District: 1, StartLocation: "Balayan", Destination: "BSU", IncludeTrike: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 11.9, res.TrikeFare)
	assert.Equal(t, 130.9, res.TotalFare)
}

func TestCalculate_WithoutTrike(t *testing.T) {
	c := testCalculator(t)

	res, err := c.Calculate(context.Background(), models.CalculateRequest{District: 1, StartLocation: "Lemery"})
	require.NoError(t, err)
	assert.Zero(t, res.TrikeFare)
	assert.Equal(t, 35.0, res.TotalFare)
}

func TestCalculate_Errors(t *testing.T) {
	c := testCalculator(t)

	tests := []struct {
		name     string
		req      models.CalculateRequest
		field    types.Field
		contains string
	}{
		{
			name:     "empty start",
			req:      models.CalculateRequest{District: 1, StartLocation: "  "},
			field:    types.FieldStartLocation,
			contains: "Please enter a start location",
		},
		{
			name:     "unknown start",
			req:      models.CalculateRequest{District: 1, StartLocation: "Nowhere"},
			field:    types.FieldStartLocation,
			contains: "Invalid start location 'NOWHERE' for district 1. Available locations: BALAYAN, BSU, GRAND TERMINAL, LEMERY",
		},
		{
			name:     "unknown destination",
			req:      models.CalculateRequest{District: 1, StartLocation: "Lemery", Destination: "Manila"},
			field:    types.FieldDestination,
			contains: "Invalid destination 'MANILA'",
		},
		{
			name:     "known places without a route",
			req:      models.CalculateRequest{District: 1, StartLocation: "Balayan", Destination: "Grand Terminal"},
			field:    types.FieldDestination,
			contains: "No route found from 'BALAYAN' to 'GRAND TERMINAL' in district 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Calculate(context.Background(), tt.req)

			var fieldErr *types.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Contains(t, fieldErr.Message, tt.contains)
		})
	}
}

func TestCalculate_UnknownDistrict(t *testing.T) {
	c := testCalculator(t)

	_, err := c.Calculate(context.Background(), models.CalculateRequest{District: 9, StartLocation: "Lemery"})
	require.ErrorIs(t, err, types.ErrUnknownDistrict)

	var fieldErr *types.FieldError
	assert.NotErrorAs(t, err, &fieldErr)
	assert.Equal(t, "No routes found for district 9", err.Error())
}

func TestDefaultGuide_CoversCatalog(t *testing.T) {
	g, err := DefaultGuide()
	require.NoError(t, err)
	c := NewCalculator(g)
	cat := catalog.Default()

	for _, d := range cat.Districts() {
		for _, loc := range cat.LocationsFor(d) {
			if types.IsHome(loc) {
				continue
			}
			res, err := c.Calculate(context.Background(), models.CalculateRequest{District: d, StartLocation: loc})
			if assert.NoError(t, err, "district %d %s", d, loc) {
				assert.NotEmpty(t, res.Segments)
				assert.Positive(t, res.TotalFare)
			}
		}
	}
}

func TestLoadGuide(t *testing.T) {
	g, err := LoadGuide("")
	require.NoError(t, err)
	assert.True(t, g.HasDistrict(6))

	path := filepath.Join(t.TempDir(), "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte(testGuide), 0o600))
	g, err = LoadGuide(path)
	require.NoError(t, err)
	assert.False(t, g.HasDistrict(6))

	_, err = LoadGuide(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
