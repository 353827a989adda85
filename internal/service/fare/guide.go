package fare

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Temutjin2k/fair-fares/internal/domain/models"
	"github.com/Temutjin2k/fair-fares/internal/domain/types"
)

//go:embed fare_guide.txt
var defaultGuide []byte

var ErrEmptyGuide = errors.New("fare guide has no routes")

type routeKey struct {
	start       string
	destination string
}

// Guide holds the routes of every district, keyed by upper-cased start and destination.
//
// The text format is line based:
//
//	district 1:
//	Balayan - BSU:
//	Balayan to Grand Terminal,bus,106.00
//	Grand Terminal to BSU,jeepney,13.00
//
// Blank lines and lines starting with '#' are ignored, as are malformed lines.
type Guide struct {
	districts map[types.DistrictID]map[routeKey][]models.FareSegment
}

// LoadGuide reads the guide at path, or the embedded guide when path is empty.
func LoadGuide(path string) (*Guide, error) {
	if path == "" {
		return DefaultGuide()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fare guide: %w", err)
	}
	defer f.Close()

	return ParseGuide(f)
}

func DefaultGuide() (*Guide, error) {
	return ParseGuide(bytes.NewReader(defaultGuide))
}

func ParseGuide(r io.Reader) (*Guide, error) {
	g := &Guide{districts: make(map[types.DistrictID]map[routeKey][]models.FareSegment)}

	var (
		district types.DistrictID
		hasDist  bool
		route    *routeKey
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if n, ok := districtHeader(line); ok {
			district, hasDist, route = n, true, nil
			if _, ok := g.districts[district]; !ok {
				g.districts[district] = make(map[routeKey][]models.FareSegment)
			}
			continue
		}

		if strings.HasSuffix(line, ":") && strings.Contains(line, " - ") {
			if !hasDist {
				continue
			}
			parts := strings.Split(strings.TrimSuffix(line, ":"), " - ")
			if len(parts) != 2 {
				continue
			}
			key := routeKey{start: normalize(parts[0]), destination: normalize(parts[1])}
			g.districts[district][key] = []models.FareSegment{}
			route = &key
			continue
		}

		if route == nil {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		fare, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}
		g.districts[district][*route] = append(g.districts[district][*route], models.FareSegment{
			Description: strings.TrimSpace(parts[0]),
			Vehicle:     strings.TrimSpace(parts[1]),
			Fare:        fare,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fare guide: %w", err)
	}

	for _, routes := range g.districts {
		if len(routes) > 0 {
			return g, nil
		}
	}
	return nil, ErrEmptyGuide
}

// Route returns a copy of the segments from start to destination.
func (g *Guide) Route(d types.DistrictID, start, destination string) ([]models.FareSegment, bool) {
	segments, ok := g.districts[d][routeKey{start: normalize(start), destination: normalize(destination)}]
	if !ok {
		return nil, false
	}
	return slices.Clone(segments), true
}

func (g *Guide) HasDistrict(d types.DistrictID) bool {
	_, ok := g.districts[d]
	return ok
}

// Starts lists, sorted, the upper-cased start locations of a district.
func (g *Guide) Starts(d types.DistrictID) []string {
	return g.collect(d, func(k routeKey) []string { return []string{k.start} })
}

// Destinations lists, sorted, the upper-cased destinations of a district.
func (g *Guide) Destinations(d types.DistrictID) []string {
	return g.collect(d, func(k routeKey) []string { return []string{k.destination} })
}

// Locations lists, sorted, every upper-cased location named in a district's route headers.
func (g *Guide) Locations(d types.DistrictID) []string {
	return g.collect(d, func(k routeKey) []string { return []string{k.start, k.destination} })
}

func (g *Guide) collect(d types.DistrictID, pick func(routeKey) []string) []string {
	seen := make(map[string]struct{})
	for k := range g.districts[d] {
		for _, loc := range pick(k) {
			seen[loc] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	slices.Sort(out)
	return out
}

// districtHeader parses "district N:".
func districtHeader(line string) (types.DistrictID, bool) {
	if len(line) < len("district") || !strings.EqualFold(line[:len("district")], "district") {
		return 0, false
	}
	num := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line[len("district"):]), ":"))
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, false
	}
	return types.DistrictID(n), true
}

func normalize(loc string) string {
	return strings.ToUpper(strings.TrimSpace(loc))
}
