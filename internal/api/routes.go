// routes.go - Route registration
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, ws *WebSocketHandler) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// Hotspot dataset
	apiGroup.GET("/hotspots", h.HandleGetHotspots)
	apiGroup.POST("/hotspots/reload", h.HandleReloadHotspots)

	// Tour sessions
	apiGroup.GET("/tours", h.HandleListTours)
	apiGroup.POST("/tours", h.HandleCreateTour)
	apiGroup.DELETE("/tours/:tourId", h.HandleDeleteTour)
	apiGroup.POST("/tours/:tourId/keepalive", h.HandleTourKeepAlive)

	// Map panel
	apiGroup.GET("/tours/:tourId/panel", h.HandleGetPanel)
	apiGroup.POST("/tours/:tourId/panel/toggle", h.HandleTogglePanel)

	// Overlay
	apiGroup.POST("/tours/:tourId/resize", h.HandleResize)
	apiGroup.GET("/tours/:tourId/markers", h.HandleGetMarkers)
	apiGroup.GET("/tours/:tourId/markers/msgpack", h.HandleGetMarkersMsgpack)

	// Panorama view
	apiGroup.POST("/tours/:tourId/scene", h.HandleLoadScene)
	apiGroup.POST("/tours/:tourId/zoom", h.HandleZoom)
	apiGroup.GET("/tours/:tourId/view", h.HandleGetView)

	// Event push
	apiGroup.GET("/ws/:tourId", ws.HandleWebSocket)
}
