package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/benhaham/findscooter/internal/models"
	apperrors "github.com/benhaham/findscooter/pkg/errors"
	"github.com/benhaham/findscooter/pkg/geo"
)

// AddScooterInput captures the fields accepted when registering a scooter.
type AddScooterInput struct {
	ProductType string
	Model       string
	Lat         float64
	Lon         float64
}

// NearbyScooter is a scooter projected with its distance from the caller.
type NearbyScooter struct {
	ID       string  `json:"id"`
	Model    string  `json:"model"`
	Battery  int     `json:"battery"`
	Distance float64 `json:"dist"`
}

// ScooterService manages the scooter fleet and the nearest-scooter lookup.
type ScooterService struct {
	db *gorm.DB
}

// NewScooterService constructs a ScooterService instance.
func NewScooterService(db *gorm.DB) (*ScooterService, error) {
	if db == nil {
		return nil, errors.New("scooter service: db is required")
	}
	return &ScooterService{db: db}, nil
}

// Add registers a new scooter. New scooters start available with a full battery.
func (s *ScooterService) Add(ctx context.Context, input AddScooterInput) (*models.Scooter, error) {
	productType := strings.TrimSpace(input.ProductType)
	model := strings.TrimSpace(input.Model)
	if productType == "" || model == "" {
		return nil, apperrors.NewBadRequest("product type and model are required")
	}

	scooter := &models.Scooter{
		ProductType: productType,
		Model:       model,
		Battery:     100,
		IsAvailable: true,
		Lat:         input.Lat,
		Lon:         input.Lon,
	}

	if err := s.db.WithContext(ctx).Create(scooter).Error; err != nil {
		return nil, fmt.Errorf("scooter service: create scooter: %w", err)
	}

	return scooter, nil
}

// ListNearby returns every scooter annotated with its distance in meters from
// the given position, nearest first.
func (s *ScooterService) ListNearby(ctx context.Context, lat, lon float64) ([]NearbyScooter, error) {
	var scooters []models.Scooter
	if err := s.db.WithContext(ctx).Find(&scooters).Error; err != nil {
		return nil, fmt.Errorf("scooter service: list scooters: %w", err)
	}

	origin := geo.Point{Lat: lat, Lon: lon}
	nearby := make([]NearbyScooter, 0, len(scooters))
	for _, scooter := range scooters {
		nearby = append(nearby, NearbyScooter{
			ID:       scooter.ID,
			Model:    scooter.Model,
			Battery:  scooter.Battery,
			Distance: geo.Distance(origin, geo.Point{Lat: scooter.Lat, Lon: scooter.Lon}),
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})

	return nearby, nil
}
