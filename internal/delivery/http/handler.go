package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pricewise/backend/internal/domain"
	"github.com/pricewise/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search    *usecase.SearchService
	geocoding domain.GeocodingClient
	platforms []domain.Platform
}

// NewHandler creates a new HTTP handler
func NewHandler(search *usecase.SearchService, geocoding domain.GeocodingClient) *Handler {
	return &Handler{
		search:    search,
		geocoding: geocoding,
		platforms: domain.AllPlatforms(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricewise-backend",
		"version": "1.0.0",
	})
}

// Root returns API information
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "PriceWise comparison API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"search":       "POST /api/search",
			"autocomplete": "GET /api/autocomplete",
			"reverse":      "GET /api/geocode/reverse",
			"config":       "GET /api/config",
			"health":       "GET /health",
		},
		"supported_platforms": h.platforms,
	})
}

// Search handles comparison search requests
func (h *Handler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Search service not configured"})
		return
	}

	var request domain.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}

	for _, platform := range request.Platforms {
		if !platform.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown platform: " + string(platform)})
			return
		}
	}

	result, err := h.search.Search(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Autocomplete proxies address autocomplete lookups
func (h *Handler) Autocomplete(c *gin.Context) {
	if h.geocoding == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Geocoding not configured"})
		return
	}

	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		c.JSON(http.StatusOK, []domain.GeoSuggestion{})
		return
	}

	suggestions, err := h.geocoding.Autocomplete(c.Request.Context(), text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Autocomplete request failed"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// ReverseGeocode proxies coordinate-to-address lookups
func (h *Handler) ReverseGeocode(c *gin.Context) {
	if h.geocoding == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Geocoding not configured"})
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon required"})
		return
	}

	suggestion, err := h.geocoding.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Reverse geocode failed"})
		return
	}
	if suggestion == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// PlatformConfig returns the supported platform table
func (h *Handler) PlatformConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"platforms": h.platforms,
		"loaded":    true,
	})
}

// NotFound handles unknown routes with a JSON body instead of gin's
// default empty 404.
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": "The requested URL was not found on the server.",
		"available_endpoints": gin.H{
			"search":       "POST /api/search",
			"autocomplete": "GET /api/autocomplete",
			"reverse":      "GET /api/geocode/reverse",
			"config":       "GET /api/config",
			"health":       "GET /health",
			"root":         "GET /",
		},
	})
}
