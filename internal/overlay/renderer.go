package overlay

import (
	"sync/atomic"

	"github.com/pano-tour/backend/internal/models"
)

// Renderer turns the hotspot dataset into marker frames. Every render is a
// redraw from scratch: the produced frame replaces the previous one wholesale
// and carries a sequence number so a stale frame can never override a newer
// one.
type Renderer struct {
	seq atomic.Uint64
}

// NewRenderer creates a renderer with its frame sequence at zero.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render projects the hotspots into the geometry's box. Marker pixel position
// is exactly (x*W, y*H); iteration order follows the dataset order.
func (r *Renderer) Render(hotspots []models.Hotspot, g Geometry) models.MarkerFrame {
	width, height := g.Box()

	markers := make([]models.Marker, 0, len(hotspots))
	for i, h := range hotspots {
		markers = append(markers, models.Marker{
			Index: i,
			Label: h.Label(i),
			X:     h.X * width,
			Y:     h.Y * height,
			Photo: h.Photo,
		})
	}

	return models.MarkerFrame{
		Seq:     r.seq.Add(1),
		Width:   width,
		Height:  height,
		Markers: markers,
	}
}
