package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/benhaham/findscooter/internal/services"
	"github.com/benhaham/findscooter/pkg/logger"
	"github.com/benhaham/findscooter/pkg/response"
)

// ScooterHandler exposes fleet management and the nearest-scooter lookup.
type ScooterHandler struct {
	service *services.ScooterService
	log     *zap.Logger
}

// NewScooterHandler constructs a ScooterHandler.
func NewScooterHandler(service *services.ScooterService) *ScooterHandler {
	return &ScooterHandler{
		service: service,
		log:     logger.WithModule("handlers.scooters"),
	}
}

type addScooterRequest struct {
	ProductType string  `json:"productType" validate:"required"`
	Model       string  `json:"productModel" validate:"required"`
	Lat         float64 `json:"currentLocationLat" validate:"min=-90,max=90"`
	Lon         float64 `json:"currentLocationLong" validate:"min=-180,max=180"`
}

type nearbyRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"long" validate:"min=-180,max=180"`
}

// POST /api/product/addProduct
func (h *ScooterHandler) Add(c *gin.Context) {
	var req addScooterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	scooter, err := h.service.Add(c.Request.Context(), services.AddScooterInput{
		ProductType: req.ProductType,
		Model:       req.Model,
		Lat:         req.Lat,
		Lon:         req.Lon,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, scooter)
}

// POST /api/product/getAllScooters
func (h *ScooterHandler) ListNearby(c *gin.Context) {
	var req nearbyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	scooters, err := h.service.ListNearby(c.Request.Context(), req.Lat, req.Lon)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, scooters)
}
