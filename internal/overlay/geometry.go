// Package overlay projects hotspot coordinates onto the floorplan box and
// produces marker frames for clients to draw.
package overlay

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Default readiness polling: the floorplan is rechecked every 100ms up to 10
// times before the renderer gives up.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollAttempts = 10
)

// Geometry is the floorplan's layout as last reported. Width and Height are
// the rendered box; the intrinsic dimensions come from the image file itself
// and act as a fallback while the element is hidden or not yet laid out.
type Geometry struct {
	Width           float64
	Height          float64
	IntrinsicWidth  float64
	IntrinsicHeight float64
	// Complete mirrors the image's load completion; markers are never
	// rendered against an image that has not finished loading.
	Complete bool
}

// Renderable reports whether markers can be placed against this geometry.
func (g Geometry) Renderable() bool {
	if !g.Complete {
		return false
	}
	w, h := g.Box()
	return w > 0 && h > 0
}

// Box returns the dimensions markers should be projected into: the rendered
// box, or the intrinsic dimensions when the rendered box has zero size.
func (g Geometry) Box() (width, height float64) {
	if g.Width > 0 && g.Height > 0 {
		return g.Width, g.Height
	}
	return g.IntrinsicWidth, g.IntrinsicHeight
}

// Tracker holds the current floorplan geometry and wakes waiters when it
// changes.
type Tracker struct {
	mu      sync.Mutex
	geom    Geometry
	log     zerolog.Logger
	waiters []chan struct{}
}

// NewTracker creates a tracker seeded with the floorplan's intrinsic
// dimensions, when known.
func NewTracker(intrinsicWidth, intrinsicHeight float64, log zerolog.Logger) *Tracker {
	return &Tracker{
		geom: Geometry{
			IntrinsicWidth:  intrinsicWidth,
			IntrinsicHeight: intrinsicHeight,
		},
		log: log.With().Str("component", "overlay").Logger(),
	}
}

// Update records a new rendered box and marks the image complete. All
// readiness waiters are woken.
func (t *Tracker) Update(width, height float64) {
	t.mu.Lock()
	t.geom.Width = width
	t.geom.Height = height
	t.geom.Complete = true
	waiters := t.waiters
	t.waiters = nil
	t.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Current returns the geometry as last reported.
func (t *Tracker) Current() Geometry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.geom
}

// WaitReady is the event-driven readiness strategy: it returns the geometry
// as soon as it is renderable, waking on updates, or fails when the context
// expires first.
func (t *Tracker) WaitReady(ctx context.Context) (Geometry, bool) {
	for {
		t.mu.Lock()
		if t.geom.Renderable() {
			g := t.geom
			t.mu.Unlock()
			return g, true
		}
		ch := make(chan struct{})
		t.waiters = append(t.waiters, ch)
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return Geometry{}, false
		case <-ch:
		}
	}
}

// PollReady is the retry-based readiness strategy: the geometry is rechecked
// every interval up to attempts times. Exhausting the attempts logs a warning
// and gives up silently; the caller draws nothing.
func (t *Tracker) PollReady(ctx context.Context, interval time.Duration, attempts int) (Geometry, bool) {
	for i := 0; i < attempts; i++ {
		if g := t.Current(); g.Renderable() {
			return g, true
		}
		select {
		case <-ctx.Done():
			return Geometry{}, false
		case <-time.After(interval):
		}
	}
	if g := t.Current(); g.Renderable() {
		return g, true
	}
	t.log.Warn().Int("attempts", attempts).Dur("interval", interval).
		Msg("floorplan never became renderable, giving up")
	return Geometry{}, false
}
