// handlers_hotspots.go - Hotspot dataset handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleGetHotspots returns the hotspot dataset, loading it from the source
// on first access. A failed load surfaces as a DATA_LOAD_ERROR while any
// previously cached dataset stays installed for later requests.
func (h *Handler) HandleGetHotspots(c echo.Context) error {
	hotspots, err := h.hotspots.Get(c.Request().Context())
	if err != nil {
		return NewDataLoadError("failed to load hotspots", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"hotspots": hotspots,
		"skipped":  h.hotspots.RecordErrors(),
	})
}

// HandleReloadHotspots forces a reload from the source, bypassing the cache.
func (h *Handler) HandleReloadHotspots(c echo.Context) error {
	hotspots, err := h.hotspots.Load(c.Request().Context())
	if err != nil {
		return NewDataLoadError("failed to reload hotspots", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"hotspots": hotspots,
		"skipped":  h.hotspots.RecordErrors(),
	})
}
