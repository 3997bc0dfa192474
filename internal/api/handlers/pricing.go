package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enerlytic/solarplan-go/internal/logging"
	"github.com/enerlytic/solarplan-go/internal/models"
	"github.com/enerlytic/solarplan-go/internal/pricing"
)

// PriceService is the pricing surface used by the handler.
type PriceService interface {
	Current(ctx context.Context) pricing.Snapshot
	UpdateManual(ctx context.Context, priceEURPerKWh float64) (pricing.Snapshot, error)
	UpdateLive(ctx context.Context) (pricing.Snapshot, error)
}

// PricingHandler serves the electricity price endpoints.
type PricingHandler struct {
	service PriceService
	logger  *logging.StandardLogger
}

// NewPricingHandler creates the pricing handler.
func NewPricingHandler(service PriceService, logger *logging.StandardLogger) *PricingHandler {
	return &PricingHandler{
		service: service,
		logger:  logger,
	}
}

// GetPrice reports the electricity price snapshot in effect.
func (h *PricingHandler) GetPrice(c *gin.Context) {
	snapshot := h.service.Current(c.Request.Context())
	c.JSON(http.StatusOK, models.ElectricityPriceResponse{
		PriceEURPerKWh: snapshot.PriceEURPerKWh,
		Source:         snapshot.Source,
		UpdatedAt:      snapshot.UpdatedAt,
	})
}

// UpdateLive refreshes the price from the live market feed.
func (h *PricingHandler) UpdateLive(c *gin.Context) {
	snapshot, err := h.service.UpdateLive(c.Request.Context())
	if err != nil {
		var implausible *pricing.ErrImplausiblePrice
		if errors.As(err, &implausible) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithComponent("pricing").Error("live price update failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch live price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"new_price": snapshot.PriceEURPerKWh,
	})
}

// UpdateManual sets the price by operator input.
func (h *PricingHandler) UpdateManual(c *gin.Context) {
	var req models.PriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.service.UpdateManual(c.Request.Context(), req.PriceEURPerKWh)
	if err != nil {
		var implausible *pricing.ErrImplausiblePrice
		if errors.As(err, &implausible) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithComponent("pricing").Error("manual price update failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"new_price": snapshot.PriceEURPerKWh,
	})
}
