package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pano-tour/backend/internal/hotspot"
	"github.com/pano-tour/backend/internal/models"
	"github.com/pano-tour/backend/internal/overlay"
	"github.com/pano-tour/backend/internal/panel"
	"github.com/pano-tour/backend/internal/viewer"
	"github.com/rs/zerolog"
)

// ErrViewerUnavailable is returned for viewer operations when the viewer
// feature failed to initialize at startup.
var ErrViewerUnavailable = errors.New("viewer unavailable")

// Event names pushed to tour notifiers.
const (
	EventViewState   = "view"
	EventMarkerFrame = "markers"
	EventError       = "error"
)

// Notifier receives tour events for pushing to connected clients.
type Notifier func(event string, payload interface{})

// Tour is one client's tour state: its panel visibility, floorplan geometry,
// rendered marker frame and panorama view. Hotspot data is shared across
// tours through the store's single cache.
type Tour struct {
	id        string
	createdAt time.Time
	log       zerolog.Logger

	hotspots *hotspot.Store
	viewer   *viewer.Adapter // nil when the viewer feature is down
	geometry *overlay.Tracker
	renderer *overlay.Renderer
	panel    *panel.Controller

	pollInterval time.Duration
	pollAttempts int

	mu           sync.RWMutex
	lastAccessed time.Time
	frame        *models.MarkerFrame
	notify       Notifier
}

// ID returns the tour's identifier.
func (t *Tour) ID() string {
	return t.id
}

// Info returns the API representation of this tour.
func (t *Tour) Info() models.TourInfo {
	info := models.TourInfo{
		ID:        t.id,
		CreatedAt: t.createdAt,
		Panel:     t.panel.State(),
	}
	if t.viewer != nil {
		info.Scene = t.viewer.Scene()
	}
	return info
}

// SetNotifier attaches the push channel for this tour's events.
func (t *Tour) SetNotifier(fn Notifier) {
	t.mu.Lock()
	t.notify = fn
	t.mu.Unlock()
}

func (t *Tour) emit(event string, payload interface{}) {
	t.mu.RLock()
	notify := t.notify
	t.mu.RUnlock()
	if notify != nil {
		notify(event, payload)
	}
}

// TogglePanel flips the map panel and returns the new state. Showing the
// panel kicks off an overlay render.
func (t *Tour) TogglePanel() models.PanelState {
	return t.panel.Toggle()
}

// PanelState returns the current panel visibility.
func (t *Tour) PanelState() models.PanelState {
	return t.panel.State()
}

// Resize records the floorplan's rendered box as reported by the client and
// schedules a debounced re-render while the panel is visible.
func (t *Tour) Resize(width, height float64) {
	t.geometry.Update(width, height)
	t.panel.OnResize()
}

// Frame returns the most recent marker frame, false when nothing has been
// rendered yet.
func (t *Tour) Frame() (models.MarkerFrame, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.frame == nil {
		return models.MarkerFrame{}, false
	}
	return *t.frame, true
}

// renderOverlay runs the full overlay pipeline in the background: load the
// dataset if it is not cached, wait for the floorplan to become renderable,
// project the markers and install the frame. Each failure is isolated: a
// load error is pushed to the client, a readiness timeout only logs.
func (t *Tour) renderOverlay() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(),
			t.pollInterval*time.Duration(t.pollAttempts+2)+10*time.Second)
		defer cancel()

		data, err := t.hotspots.Get(ctx)
		if err != nil {
			t.log.Error().Err(err).Msg("hotspot load failed")
			t.emit(EventError, map[string]string{"message": "failed to load hotspots: " + err.Error()})
			return
		}

		g, ok := t.geometry.PollReady(ctx, t.pollInterval, t.pollAttempts)
		if !ok {
			// PollReady already logged the warning; no markers are drawn.
			return
		}

		frame := t.renderer.Render(data, g)

		t.mu.Lock()
		// Frames carry monotonic sequence numbers; a slow render never
		// clobbers a newer frame.
		if t.frame == nil || frame.Seq > t.frame.Seq {
			t.frame = &frame
		}
		t.mu.Unlock()

		t.emit(EventMarkerFrame, frame)
	}()
}

// LoadScene switches the panorama view to the given photo.
func (t *Tour) LoadScene(ctx context.Context, photo string) (models.ViewInfo, error) {
	if t.viewer == nil {
		return models.ViewInfo{}, ErrViewerUnavailable
	}
	return t.viewer.LoadScene(ctx, photo)
}

// Zoom applies a wheel delta to the active view.
func (t *Tour) Zoom(delta float64) (models.ViewState, error) {
	if t.viewer == nil {
		return models.ViewState{}, ErrViewerUnavailable
	}
	return t.viewer.Zoom(delta)
}

// View returns the active view snapshot.
func (t *Tour) View() (models.ViewInfo, error) {
	if t.viewer == nil {
		return models.ViewInfo{}, ErrViewerUnavailable
	}
	return t.viewer.View()
}

// Advance steps the tour's autorotation; driven by the manager's ticker.
func (t *Tour) Advance(dt time.Duration) {
	if t.viewer != nil {
		t.viewer.Advance(dt)
	}
}

func (t *Tour) touch() {
	t.mu.Lock()
	t.lastAccessed = time.Now()
	t.mu.Unlock()
}

func (t *Tour) idleSince() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastAccessed
}

// Close releases the tour's timers.
func (t *Tour) Close() {
	t.panel.Close()
}
