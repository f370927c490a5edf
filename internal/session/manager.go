// Package session manages tour sessions: one per connected client, each
// owning its panel state, floorplan geometry and panorama view.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pano-tour/backend/internal/hotspot"
	"github.com/pano-tour/backend/internal/models"
	"github.com/pano-tour/backend/internal/overlay"
	"github.com/pano-tour/backend/internal/panel"
	"github.com/pano-tour/backend/internal/storage"
	"github.com/pano-tour/backend/internal/viewer"
	"github.com/rs/zerolog"
)

// MaxTours limits concurrent tours to keep a misbehaving client from
// accumulating sessions.
const MaxTours = 64

// Options tunes tour construction.
type Options struct {
	InitialPanelVisible bool
	ResizeDebounce      time.Duration
	PollInterval        time.Duration
	PollAttempts        int
	ViewerLimits        viewer.Limits
}

// DefaultOptions returns the stock tour tuning.
func DefaultOptions() Options {
	return Options{
		InitialPanelVisible: true,
		ResizeDebounce:      panel.DefaultResizeDebounce,
		PollInterval:        overlay.DefaultPollInterval,
		PollAttempts:        overlay.DefaultPollAttempts,
		ViewerLimits:        viewer.DefaultLimits(),
	}
}

// Manager creates and tracks tours.
type Manager struct {
	mu       sync.RWMutex
	tours    map[string]*Tour
	hotspots *hotspot.Store
	assets   storage.Assets // nil when the viewer feature is down
	opts     Options
	log      zerolog.Logger
}

// NewManager creates a tour manager. assets may be nil, in which case viewer
// operations on every tour answer ErrViewerUnavailable while the overlay
// keeps working.
func NewManager(hotspots *hotspot.Store, assets storage.Assets, opts Options, log zerolog.Logger) *Manager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = overlay.DefaultPollInterval
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = overlay.DefaultPollAttempts
	}
	return &Manager{
		tours:    make(map[string]*Tour),
		hotspots: hotspots,
		assets:   assets,
		opts:     opts,
		log:      log.With().Str("component", "session").Logger(),
	}
}

// CreateTour builds a new tour. The geometry tracker is seeded with the
// floorplan's intrinsic dimensions when the asset is available, so markers
// can be placed even before the client reports a layout.
func (m *Manager) CreateTour() (*Tour, error) {
	m.mu.Lock()
	if len(m.tours) >= MaxTours {
		m.mu.Unlock()
		return nil, fmt.Errorf("too many active tours (%d)", MaxTours)
	}
	m.mu.Unlock()

	id := uuid.New().String()
	log := m.log.With().Str("tour", shortID(id)).Logger()

	var intrinsicW, intrinsicH float64
	var adapter *viewer.Adapter
	if m.assets != nil {
		if fp, err := m.assets.Floorplan(); err == nil {
			intrinsicW, intrinsicH = float64(fp.Width), float64(fp.Height)
		} else {
			log.Warn().Err(err).Msg("floorplan unavailable, no intrinsic fallback")
		}
		var err error
		adapter, err = viewer.NewAdapter(m.assets, m.opts.ViewerLimits, log)
		if err != nil {
			return nil, err
		}
	}

	t := &Tour{
		id:           id,
		createdAt:    time.Now(),
		lastAccessed: time.Now(),
		log:          log,
		hotspots:     m.hotspots,
		viewer:       adapter,
		geometry:     overlay.NewTracker(intrinsicW, intrinsicH, log),
		renderer:     overlay.NewRenderer(),
		pollInterval: m.opts.PollInterval,
		pollAttempts: m.opts.PollAttempts,
	}
	if adapter != nil {
		adapter.OnChange(func(info models.ViewInfo) {
			t.emit(EventViewState, info)
		})
	}
	// The panel comes last: an open-by-default panel fires its first render
	// during construction.
	t.panel = panel.NewController(m.opts.InitialPanelVisible, m.opts.ResizeDebounce, t.renderOverlay)

	m.mu.Lock()
	m.tours[id] = t
	m.mu.Unlock()

	log.Info().Bool("panelVisible", m.opts.InitialPanelVisible).Msg("tour created")
	return t, nil
}

// GetTour returns a tour by ID, refreshing its keep-alive timestamp.
func (m *Manager) GetTour(id string) (*Tour, bool) {
	m.mu.RLock()
	t, ok := m.tours[id]
	m.mu.RUnlock()
	if ok {
		t.touch()
	}
	return t, ok
}

// Touch refreshes a tour's keep-alive timestamp.
func (m *Manager) Touch(id string) bool {
	_, ok := m.GetTour(id)
	return ok
}

// DeleteTour removes and closes a tour.
func (m *Manager) DeleteTour(id string) bool {
	m.mu.Lock()
	t, ok := m.tours[id]
	if ok {
		delete(m.tours, id)
	}
	m.mu.Unlock()
	if ok {
		t.Close()
	}
	return ok
}

// List returns the API representation of all active tours.
func (m *Manager) List() []models.TourInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]models.TourInfo, 0, len(m.tours))
	for _, t := range m.tours {
		infos = append(infos, t.Info())
	}
	return infos
}

// Len returns the number of active tours.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tours)
}

// CleanupIdleTours closes tours that have not been touched within maxAge.
func (m *Manager) CleanupIdleTours(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Tour
	for id, t := range m.tours {
		if t.idleSince().Before(cutoff) {
			delete(m.tours, id)
			expired = append(expired, t)
		}
	}
	m.mu.Unlock()

	for _, t := range expired {
		t.Close()
		m.log.Info().Str("tour", shortID(t.ID())).Msg("cleaned up idle tour")
	}
}

// AdvanceAll steps autorotation on every tour; driven by the server's view
// ticker.
func (m *Manager) AdvanceAll(dt time.Duration) {
	m.mu.RLock()
	tours := make([]*Tour, 0, len(m.tours))
	for _, t := range m.tours {
		tours = append(tours, t)
	}
	m.mu.RUnlock()

	for _, t := range tours {
		t.Advance(dt)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
