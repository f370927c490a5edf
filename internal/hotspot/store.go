package hotspot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pano-tour/backend/internal/models"
	"github.com/rs/zerolog"
)

// RecordError describes a dataset record that was skipped during validation.
type RecordError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Store holds the one in-memory copy of the hotspot dataset. Reloads are
// last-triggered-wins: when two loads race, the result of the later-started
// one is installed and the earlier one is discarded, never the other way
// around. A failed load leaves the previously installed dataset untouched.
type Store struct {
	mu           sync.RWMutex
	source       Source
	log          zerolog.Logger
	hotspots     []models.Hotspot
	recordErrors []RecordError
	loaded       bool

	seq       uint64 // next load sequence number
	installed uint64 // sequence of the currently installed load
}

// NewStore creates a hotspot store backed by the given source.
func NewStore(source Source, log zerolog.Logger) *Store {
	return &Store{
		source: source,
		log:    log.With().Str("component", "hotspots").Logger(),
	}
}

// rawRecord mirrors one dataset entry with pointer fields so absent
// coordinates are distinguishable from zero ones. The legacy behavior of
// arithmetic-coercing a missing coordinate to 0 silently misplaced malformed
// records; here they are rejected instead.
type rawRecord struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Photo    string   `json:"photo"`
	Filename string   `json:"filename"`
}

func (r rawRecord) validate() string {
	switch {
	case r.X == nil || r.Y == nil:
		return "missing x or y"
	case *r.X < 0 || *r.X > 1 || *r.Y < 0 || *r.Y > 1:
		return fmt.Sprintf("coordinates out of range: (%v, %v)", *r.X, *r.Y)
	case r.Photo == "":
		return "missing photo"
	default:
		return ""
	}
}

// Load fetches, validates and installs the dataset. On any fetch or parse
// failure the cached dataset is left untouched and the error is returned for
// the caller to surface.
func (s *Store) Load(ctx context.Context) ([]models.Hotspot, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	hotspots, recordErrors, err := decode(data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A later-started load already finished; this result is stale.
	if seq < s.installed {
		return append([]models.Hotspot(nil), s.hotspots...), nil
	}

	s.installed = seq
	s.hotspots = hotspots
	s.recordErrors = recordErrors
	s.loaded = true

	for _, re := range recordErrors {
		s.log.Warn().Int("index", re.Index).Str("reason", re.Reason).Msg("skipped malformed hotspot record")
	}
	s.log.Info().Int("count", len(hotspots)).Int("skipped", len(recordErrors)).Msg("hotspot dataset loaded")

	return append([]models.Hotspot(nil), hotspots...), nil
}

func decode(data []byte) ([]models.Hotspot, []RecordError, error) {
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, fmt.Errorf("parsing hotspots: %w", err)
	}

	// A well-formed JSON body that is not an array normalizes to an empty
	// dataset rather than an error.
	if _, ok := probe.([]interface{}); !ok {
		return []models.Hotspot{}, nil, nil
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parsing hotspot records: %w", err)
	}

	hotspots := make([]models.Hotspot, 0, len(raw))
	var recordErrors []RecordError
	for i, r := range raw {
		if reason := r.validate(); reason != "" {
			recordErrors = append(recordErrors, RecordError{Index: i, Reason: reason})
			continue
		}
		hotspots = append(hotspots, models.Hotspot{
			X:        *r.X,
			Y:        *r.Y,
			Photo:    r.Photo,
			Filename: r.Filename,
		})
	}
	return hotspots, recordErrors, nil
}

// Get returns the cached dataset, loading it on first access.
func (s *Store) Get(ctx context.Context) ([]models.Hotspot, error) {
	if hotspots, ok := s.Cached(); ok {
		return hotspots, nil
	}
	return s.Load(ctx)
}

// Cached returns the installed dataset without touching the source.
func (s *Store) Cached() ([]models.Hotspot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, false
	}
	return append([]models.Hotspot(nil), s.hotspots...), true
}

// RecordErrors returns the validation errors from the installed load.
func (s *Store) RecordErrors() []RecordError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RecordError(nil), s.recordErrors...)
}
