// handlers_overlay.go - Floorplan geometry and marker frame handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r *resizeRequest) validate() error {
	if r.Width < 0 {
		return NewValidationError("width")
	}
	if r.Height < 0 {
		return NewValidationError("height")
	}
	return nil
}

// HandleResize records the floorplan box reported by the client. A zero box
// is legal: it means the image loaded but the element is hidden, and the
// intrinsic dimensions take over. Re-renders are debounced server-side, so a
// drag-resize burst costs one render.
func (h *Handler) HandleResize(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	var req resizeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	tour.Resize(req.Width, req.Height)
	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}

// HandleGetMarkers returns the tour's current marker frame.
func (h *Handler) HandleGetMarkers(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	frame, ok := tour.Frame()
	if !ok {
		return NewNotFoundError("marker frame", tour.ID())
	}
	return c.JSON(http.StatusOK, frame)
}

// HandleGetMarkersMsgpack returns the marker frame msgpack-encoded for
// clients polling at interactive rates.
func (h *Handler) HandleGetMarkersMsgpack(c echo.Context) error {
	tour, apiErr := h.tourFromParam(c)
	if apiErr != nil {
		return apiErr
	}

	frame, ok := tour.Frame()
	if !ok {
		return NewNotFoundError("marker frame", tour.ID())
	}

	data, err := msgpack.Marshal(frame)
	if err != nil {
		return NewInternalError("failed to encode marker frame", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}
