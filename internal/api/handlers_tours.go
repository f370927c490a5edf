// handlers_tours.go - Tour session lifecycle and panel handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleListTours returns all active tours.
func (h *Handler) HandleListTours(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tours.List())
}

// HandleCreateTour starts a new tour session. The panel opens or stays
// closed according to server configuration.
func (h *Handler) HandleCreateTour(c echo.Context) error {
	tour, err := h.tours.CreateTour()
	if err != nil {
		return NewInternalError("failed to create tour", err)
	}
	return c.JSON(http.StatusCreated, tour.Info())
}

// HandleDeleteTour ends a tour session.
func (h *Handler) HandleDeleteTour(c echo.Context) error {
	id := c.Param("tourId")
	if !h.tours.DeleteTour(id) {
		return NewNotFoundError("tour", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleTourKeepAlive refreshes a tour's idle timer.
func (h *Handler) HandleTourKeepAlive(c echo.Context) error {
	id := c.Param("tourId")
	if !h.tours.Touch(id) {
		return NewNotFoundError("tour", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetPanel returns the tour's panel visibility.
func (h *Handler) HandleGetPanel(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, map[string]string{"panel": string(tour.PanelState())})
}

// HandleTogglePanel flips the tour's panel. Showing it triggers the overlay
// render pipeline; hiding it has no rendering side effect.
func (h *Handler) HandleTogglePanel(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, map[string]string{"panel": string(tour.TogglePanel())})
}
