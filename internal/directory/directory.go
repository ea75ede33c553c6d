// Package directory serves the static disposal-location catalog and ranks it
// by great-circle distance from a caller-supplied position.
package directory

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// RankedCenter is a catalog entry annotated with its distance from the
// query origin.
type RankedCenter struct {
	model.Center
	DistanceKm float64 `json:"distance_km"`
	Distance   string  `json:"distance"`
}

// Service holds the immutable center catalog, loaded once at process start.
type Service struct {
	byID    map[int]model.Center
	centers []model.Center
}

// New creates a directory service from the catalog at path, or from the
// compiled-in catalog when path is empty.
func New(path string) (*Service, error) {
	raw := defaultCatalogYAML
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	var file struct {
		Centers []model.Center `yaml:"centers"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", common.ErrInvalidConfig, err)
	}
	if len(file.Centers) == 0 {
		return nil, fmt.Errorf("%w: catalog has no centers", common.ErrInvalidConfig)
	}

	byID := make(map[int]model.Center, len(file.Centers))
	for _, center := range file.Centers {
		if err := ValidateCoordinates(center.Coordinates()); err != nil {
			return nil, fmt.Errorf("center %d: %w", center.ID, err)
		}
		if _, exists := byID[center.ID]; exists {
			return nil, fmt.Errorf("%w: center id %d", common.ErrDuplicateEntry, center.ID)
		}
		byID[center.ID] = center
	}

	return &Service{centers: file.Centers, byID: byID}, nil
}

// ListCenters returns the fixed catalog.
func (s *Service) ListCenters() []model.Center {
	out := make([]model.Center, len(s.centers))
	copy(out, s.centers)
	return out
}

// Center looks up a catalog entry by id.
func (s *Service) Center(id int) (model.Center, error) {
	center, ok := s.byID[id]
	if !ok {
		return model.Center{}, fmt.Errorf("%w: center %d", common.ErrNotFound, id)
	}
	return center, nil
}

// RankByDistance returns the catalog sorted ascending by haversine distance
// from origin, each entry annotated with its rounded distance.
func (s *Service) RankByDistance(origin model.Coordinates) ([]RankedCenter, error) {
	if err := ValidateCoordinates(origin); err != nil {
		return nil, err
	}

	ranked := make([]RankedCenter, len(s.centers))
	for i, center := range s.centers {
		km := roundKm(DistanceKm(origin, center.Coordinates()))
		ranked[i] = RankedCenter{
			Center:     center,
			DistanceKm: km,
			Distance:   fmt.Sprintf("%.2f km", km),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked, nil
}
