package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pano-tour/backend/internal/session"
	"github.com/rs/zerolog"
)

// Handler handles API requests.
type Handler struct {
	hotspots HotspotStore
	tours    TourManager
	version  string
	// viewerUp reflects whether the viewer feature initialized at startup;
	// it is reported in health and lets clients degrade gracefully.
	viewerUp bool
	log      zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(hotspots HotspotStore, tours TourManager, version string, viewerUp bool, log zerolog.Logger) *Handler {
	return &Handler{
		hotspots: hotspots,
		tours:    tours,
		version:  version,
		viewerUp: viewerUp,
		log:      log.With().Str("component", "api").Logger(),
	}
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"viewer":  h.viewerUp,
	})
}

// tourFromParam resolves the :tourId path parameter.
func (h *Handler) tourFromParam(c echo.Context) (*session.Tour, *APIError) {
	id := c.Param("tourId")
	if id == "" {
		return nil, NewValidationError("tourId")
	}
	tour, ok := h.tours.GetTour(id)
	if !ok {
		return nil, NewNotFoundError("tour", id)
	}
	return tour, nil
}
