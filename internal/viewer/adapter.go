// Package viewer owns the active panorama view: scene switching, the
// autorotation drift, and manual zoom with field-of-view clamping.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/pano-tour/backend/internal/models"
	"github.com/rs/zerolog"
)

// ErrNoActiveView is returned for zoom or state queries before any scene has
// been loaded.
var ErrNoActiveView = errors.New("no active view")

// PhotoResolver maps a hotspot photo reference to a servable asset path.
type PhotoResolver interface {
	ResolvePhoto(photo string) (string, error)
}

// Limits bounds the view's field of view and tunes input and autorotation.
type Limits struct {
	DefaultFov         float64
	MinFov             float64
	MaxFov             float64
	WheelZoomRate      float64
	AutorotateYawSpeed float64
	Transition         time.Duration
}

// DefaultLimits returns the stock viewer tuning.
func DefaultLimits() Limits {
	return Limits{
		DefaultFov:         1.2,
		MinFov:             0.4,
		MaxFov:             1.5,
		WheelZoomRate:      0.004,
		AutorotateYawSpeed: 0.02,
		Transition:         time.Second,
	}
}

// returnRate is the per-tick easing factor pulling pitch and fov back toward
// their defaults while autorotating.
const returnRate = 0.03

// view is the single live view. Loading a scene replaces it wholesale, which
// also invalidates any zoom state belonging to the previous view.
type view struct {
	scene           string
	path            string
	state           models.ViewState
	generation      uint64
	transitionUntil time.Time
	autorotate      bool
}

// Adapter drives one client's panorama view.
type Adapter struct {
	mu       sync.Mutex
	resolver PhotoResolver
	limits   Limits
	log      zerolog.Logger
	current  *view
	gen      uint64
	cancel   context.CancelFunc // cancels the in-flight scene load
	onChange func(models.ViewInfo)
}

// NewAdapter creates a viewer adapter. The resolver stands in for the
// panorama engine: without one there is nothing to render, so construction
// fails and the feature stays uninitialized.
func NewAdapter(resolver PhotoResolver, limits Limits, log zerolog.Logger) (*Adapter, error) {
	if resolver == nil {
		return nil, errors.New("viewer: no photo resolver available")
	}
	return &Adapter{
		resolver: resolver,
		limits:   limits,
		log:      log.With().Str("component", "viewer").Logger(),
	}, nil
}

// OnChange registers a callback invoked after every view mutation. The
// callback runs with the adapter lock held; keep it fast and never call back
// into the adapter.
func (a *Adapter) OnChange(fn func(models.ViewInfo)) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// LoadScene switches the active view to the given photo. The previous
// in-flight load, if any, is cancelled: the last-triggered load wins
// deterministically. The new view starts at yaw 0, pitch 0, default fov, with
// autorotation running.
func (a *Adapter) LoadScene(ctx context.Context, photo string) (models.ViewInfo, error) {
	if photo == "" {
		return models.ViewInfo{}, fmt.Errorf("viewer: empty photo reference")
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	path, err := a.resolver.ResolvePhoto(photo)
	if err != nil {
		return models.ViewInfo{}, fmt.Errorf("viewer: %w", err)
	}
	if err := ctx.Err(); err != nil {
		// Superseded by a later load while resolving.
		return models.ViewInfo{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// A later-triggered load already installed its view.
	if gen < a.gen {
		return a.infoLocked(), nil
	}

	a.current = &view{
		scene:      photo,
		path:       path,
		generation: gen,
		state: models.ViewState{
			Yaw:   0,
			Pitch: 0,
			Fov:   a.limits.DefaultFov,
		},
		transitionUntil: time.Now().Add(a.limits.Transition),
		autorotate:      true,
	}
	a.log.Info().Str("scene", photo).Uint64("generation", gen).Msg("scene loaded")

	a.notifyLocked()
	return a.infoLocked(), nil
}

// Zoom applies a wheel delta to the active view's field of view, clamped to
// the configured limits. The change is immediate; there is no animation and
// no debouncing. Zooming stops the autorotation ease-back so it does not
// fight the manual input.
func (a *Adapter) Zoom(delta float64) (models.ViewState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil {
		return models.ViewState{}, ErrNoActiveView
	}

	fov := a.current.state.Fov + delta*a.limits.WheelZoomRate
	a.current.state.Fov = clamp(fov, a.limits.MinFov, a.limits.MaxFov)
	a.current.autorotate = false

	a.notifyLocked()
	return a.current.state, nil
}

// Advance steps the autorotation by dt: constant-velocity yaw drift while
// pitch and fov ease back toward their resting values. A no-op when no scene
// is active or autorotation has been stopped by manual input.
func (a *Adapter) Advance(dt time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.current == nil || !a.current.autorotate {
		return
	}

	// The yaw speed is calibrated per 60fps frame.
	frames := dt.Seconds() * 60
	st := &a.current.state
	st.Yaw = normalizeYaw(st.Yaw + a.limits.AutorotateYawSpeed*frames)
	st.Pitch += (0 - st.Pitch) * returnRate * frames
	st.Fov += (a.limits.DefaultFov - st.Fov) * returnRate * frames
	st.Fov = clamp(st.Fov, a.limits.MinFov, a.limits.MaxFov)

	a.notifyLocked()
}

// Run drives Advance from a ticker until the context is cancelled.
func (a *Adapter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Advance(interval)
		}
	}
}

// View returns the current view snapshot.
func (a *Adapter) View() (models.ViewInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return models.ViewInfo{}, ErrNoActiveView
	}
	return a.infoLocked(), nil
}

// Scene returns the active scene's photo reference, empty when none.
func (a *Adapter) Scene() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return ""
	}
	return a.current.scene
}

// Transitioning reports whether the view is still inside its scene switch
// window.
func (a *Adapter) Transitioning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current != nil && time.Now().Before(a.current.transitionUntil)
}

func (a *Adapter) infoLocked() models.ViewInfo {
	return models.ViewInfo{
		Scene:      a.current.scene,
		Generation: a.current.generation,
		State:      a.current.state,
	}
}

func (a *Adapter) notifyLocked() {
	if a.onChange != nil {
		a.onChange(a.infoLocked())
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func normalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 2*math.Pi)
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	return yaw
}
