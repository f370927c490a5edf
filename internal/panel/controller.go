// Package panel owns the map panel's visibility state machine and decides
// when the overlay gets re-rendered.
package panel

import (
	"sync"
	"time"

	"github.com/pano-tour/backend/internal/models"
)

// DefaultResizeDebounce is how long resize events must stay quiet before a
// re-render fires; a new event inside the window restarts the timer.
const DefaultResizeDebounce = 100 * time.Millisecond

// RenderFunc is invoked whenever the panel decides the overlay needs
// (re)drawing. Implementations load the dataset if it is not cached yet and
// are responsible for their own readiness gating.
type RenderFunc func()

// Controller is a two-state machine, hidden or visible. Showing the panel
// triggers a render; hiding never does. Resize events while visible are
// debounced and collapse into a single render.
type Controller struct {
	mu       sync.Mutex
	visible  bool
	debounce time.Duration
	timer    *time.Timer
	render   RenderFunc
}

// NewController creates a panel controller. When initialVisible is set the
// panel opens immediately and triggers its first render, mirroring a
// page-load open.
func NewController(initialVisible bool, debounce time.Duration, render RenderFunc) *Controller {
	if debounce <= 0 {
		debounce = DefaultResizeDebounce
	}
	c := &Controller{
		visible:  initialVisible,
		debounce: debounce,
		render:   render,
	}
	if initialVisible && render != nil {
		render()
	}
	return c
}

// State returns the current visibility.
func (c *Controller) State() models.PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() models.PanelState {
	if c.visible {
		return models.PanelVisible
	}
	return models.PanelHidden
}

// Toggle flips the visibility and returns the new state. The hidden-to-visible
// transition triggers a render; the reverse transition has no side effect
// beyond cancelling a pending debounced render.
func (c *Controller) Toggle() models.PanelState {
	c.mu.Lock()
	c.visible = !c.visible
	nowVisible := c.visible
	if !nowVisible && c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	render := c.render
	state := c.stateLocked()
	c.mu.Unlock()

	if nowVisible && render != nil {
		render()
	}
	return state
}

// OnResize notes a viewport resize. Ignored while hidden. While visible the
// render is deferred until the events have been quiet for the debounce
// window, so a drag-resize costs one render instead of dozens.
func (c *Controller) OnResize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.visible || c.render == nil {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		visible := c.visible
		render := c.render
		c.timer = nil
		c.mu.Unlock()

		// The panel may have been hidden while the timer was pending.
		if visible && render != nil {
			render()
		}
	})
}

// Close cancels any pending debounced render.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
