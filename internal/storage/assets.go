// Package storage manages the image assets the tour serves: the floorplan
// and the panorama photos.
package storage

import (
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pano-tour/backend/internal/models"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Assets defines the asset lookup interface used by the viewer and session
// layers. Kept narrow so tests can substitute a mock.
type Assets interface {
	Floorplan() (*models.AssetInfo, error)
	ResolvePhoto(photo string) (string, error)
	ListPhotos(limit int) ([]*models.AssetInfo, error)
}

// AssetStore serves assets from a local directory tree:
//
//	root/
//	  floorplan.png
//	  photos/*.jpg
type AssetStore struct {
	mu            sync.RWMutex
	root          string
	floorplanFile string
	photosDir     string
	floorplan     *models.AssetInfo
}

// NewAssetStore opens the asset root. A missing root is the backend analog of
// the panorama engine being absent: construction fails and the viewer feature
// stays down.
func NewAssetStore(root, floorplanFile, photosDir string) (*AssetStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("asset root unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", root)
	}
	return &AssetStore{
		root:          root,
		floorplanFile: floorplanFile,
		photosDir:     photosDir,
	}, nil
}

// Floorplan returns the floorplan asset, probing its intrinsic dimensions
// from the image header on first access. A missing floorplan is reported at
// the point of use, not at startup.
func (s *AssetStore) Floorplan() (*models.AssetInfo, error) {
	s.mu.RLock()
	if s.floorplan != nil {
		fp := *s.floorplan
		s.mu.RUnlock()
		return &fp, nil
	}
	s.mu.RUnlock()

	p := filepath.Join(s.root, s.floorplanFile)
	stat, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("floorplan unavailable: %w", err)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening floorplan: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding floorplan %s: %w", s.floorplanFile, err)
	}

	fp := &models.AssetInfo{
		ID:           uuid.New().String(),
		Name:         s.floorplanFile,
		Path:         p,
		Size:         stat.Size(),
		Width:        cfg.Width,
		Height:       cfg.Height,
		RegisteredAt: time.Now(),
	}

	s.mu.Lock()
	s.floorplan = fp
	s.mu.Unlock()

	out := *fp
	return &out, nil
}

// ResolvePhoto maps a hotspot photo reference to the path it is served from.
// Bare filenames are prefixed with the photos directory; absolute URLs and
// already-prefixed references pass through untouched.
func (s *AssetStore) ResolvePhoto(photo string) (string, error) {
	if photo == "" {
		return "", fmt.Errorf("empty photo reference")
	}
	if isAbsoluteRef(photo) {
		return photo, nil
	}
	for _, part := range strings.Split(photo, "/") {
		if part == ".." {
			return "", fmt.Errorf("photo reference escapes asset root: %s", photo)
		}
	}

	rel := photo
	if !strings.HasPrefix(rel, s.photosDir+"/") {
		rel = path.Join(s.photosDir, rel)
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err != nil {
		return "", fmt.Errorf("photo unavailable: %w", err)
	}
	return rel, nil
}

func isAbsoluteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "/")
}

// ListPhotos returns the panorama photos under the photos directory, sorted
// by name, capped at limit when positive.
func (s *AssetStore) ListPhotos(limit int) ([]*models.AssetInfo, error) {
	dir := filepath.Join(s.root, s.photosDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.AssetInfo{}, nil
		}
		return nil, fmt.Errorf("listing photos: %w", err)
	}

	photos := make([]*models.AssetInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageName(e.Name()) {
			continue
		}
		stat, err := e.Info()
		if err != nil {
			continue
		}
		photos = append(photos, &models.AssetInfo{
			ID:           uuid.New().String(),
			Name:         e.Name(),
			Path:         path.Join(s.photosDir, e.Name()),
			Size:         stat.Size(),
			RegisteredAt: stat.ModTime(),
		})
	}

	sort.Slice(photos, func(i, j int) bool { return photos[i].Name < photos[j].Name })
	if limit > 0 && len(photos) > limit {
		photos = photos[:limit]
	}
	return photos, nil
}

// Root returns the asset root directory, used to mount the static file route.
func (s *AssetStore) Root() string {
	return s.root
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
