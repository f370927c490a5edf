// handlers_viewer.go - Panorama view handlers: scene switching and zoom
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pano-tour/backend/internal/session"
	"github.com/pano-tour/backend/internal/viewer"
)

type loadSceneRequest struct {
	Photo string `json:"photo"`
}

type zoomRequest struct {
	Delta float64 `json:"delta"`
}

// HandleLoadScene switches the tour's panorama view to the requested photo.
// The previous view reference is replaced; a superseded in-flight load is
// cancelled rather than racing the winner.
func (h *Handler) HandleLoadScene(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	var req loadSceneRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Photo == "" {
		return NewValidationError("photo")
	}

	info, err := tour.LoadScene(c.Request().Context(), req.Photo)
	if err != nil {
		if errors.Is(err, session.ErrViewerUnavailable) {
			return NewServiceUnavailableError("viewer is not available")
		}
		return NewNotFoundError("photo", req.Photo)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleZoom applies a wheel delta to the tour's view. The resulting field
// of view is clamped server-side, so no delta sequence can escape the
// limits.
func (h *Handler) HandleZoom(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	var req zoomRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	state, err := tour.Zoom(req.Delta)
	if err != nil {
		if errors.Is(err, session.ErrViewerUnavailable) {
			return NewServiceUnavailableError("viewer is not available")
		}
		if errors.Is(err, viewer.ErrNoActiveView) {
			return NewBadRequestError("no active scene to zoom", err)
		}
		return NewInternalError("zoom failed", err)
	}
	return c.JSON(http.StatusOK, state)
}

// HandleGetView returns the tour's current view state.
func (h *Handler) HandleGetView(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	info, err := tour.View()
	if err != nil {
		if errors.Is(err, session.ErrViewerUnavailable) {
			return NewServiceUnavailableError("viewer is not available")
		}
		return NewNotFoundError("active view", tour.ID())
	}
	return c.JSON(http.StatusOK, info)
}
