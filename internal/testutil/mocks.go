// Package testutil provides in-memory test doubles for the asset store and
// hotspot source.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pano-tour/backend/internal/models"
)

// StaticSource serves a mutable in-memory hotspot payload. Implements
// hotspot.Source.
type StaticSource struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

// NewStaticSource creates a source serving the given payload.
func NewStaticSource(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

// Fetch returns the configured payload or error.
func (s *StaticSource) Fetch(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

// Set swaps the payload served by subsequent fetches.
func (s *StaticSource) Set(data []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.err = err
}

// Calls returns how many fetches have been issued.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// MockAssets implements storage.Assets with a fixed floorplan and photo set.
type MockAssets struct {
	FloorplanInfo *models.AssetInfo
	FloorplanErr  error
	Photos        map[string]string // reference -> resolved path
}

// NewMockAssets creates mock assets with a 200x100 floorplan and the given
// photo references resolving to themselves.
func NewMockAssets(photos ...string) *MockAssets {
	m := &MockAssets{
		FloorplanInfo: &models.AssetInfo{
			ID:           "floorplan",
			Name:         "floorplan.png",
			Path:         "floorplan.png",
			Width:        200,
			Height:       100,
			RegisteredAt: time.Now(),
		},
		Photos: make(map[string]string),
	}
	for _, p := range photos {
		m.Photos[p] = "photos/" + p
	}
	return m
}

// Floorplan returns the configured floorplan info.
func (m *MockAssets) Floorplan() (*models.AssetInfo, error) {
	if m.FloorplanErr != nil {
		return nil, m.FloorplanErr
	}
	fp := *m.FloorplanInfo
	return &fp, nil
}

// ResolvePhoto resolves against the configured photo set.
func (m *MockAssets) ResolvePhoto(photo string) (string, error) {
	if resolved, ok := m.Photos[photo]; ok {
		return resolved, nil
	}
	return "", errors.New("photo unavailable: " + photo)
}

// ListPhotos returns the configured photos in arbitrary order.
func (m *MockAssets) ListPhotos(limit int) ([]*models.AssetInfo, error) {
	photos := make([]*models.AssetInfo, 0, len(m.Photos))
	for name, path := range m.Photos {
		photos = append(photos, &models.AssetInfo{ID: name, Name: name, Path: path})
		if limit > 0 && len(photos) >= limit {
			break
		}
	}
	return photos, nil
}
