package storage

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a solid image of the given size.
func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func newTestStore(t *testing.T) (*AssetStore, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "photos"), 0755); err != nil {
		t.Fatal(err)
	}
	writeTestPNG(t, filepath.Join(root, "floorplan.png"), 200, 100)
	writeTestPNG(t, filepath.Join(root, "photos", "a.jpg"), 4, 2)
	writeTestPNG(t, filepath.Join(root, "photos", "b.jpg"), 4, 2)

	s, err := NewAssetStore(root, "floorplan.png", "photos")
	if err != nil {
		t.Fatalf("failed to open asset store: %v", err)
	}
	return s, root
}

func TestNewAssetStore_MissingRoot(t *testing.T) {
	if _, err := NewAssetStore("/does/not/exist", "floorplan.png", "photos"); err == nil {
		t.Fatal("expected error for missing asset root")
	}
}

func TestFloorplan_ProbesIntrinsicSize(t *testing.T) {
	s, _ := newTestStore(t)

	fp, err := s.Floorplan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fp.Width != 200 || fp.Height != 100 {
		t.Errorf("expected 200x100, got %dx%d", fp.Width, fp.Height)
	}

	// Second call serves the cached probe.
	again, err := s.Floorplan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.ID != fp.ID {
		t.Error("expected cached floorplan info on repeat access")
	}
}

func TestFloorplan_Missing(t *testing.T) {
	root := t.TempDir()
	s, err := NewAssetStore(root, "floorplan.png", "photos")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Floorplan(); err == nil {
		t.Fatal("expected error for missing floorplan")
	}
}

func TestResolvePhoto(t *testing.T) {
	s, _ := newTestStore(t)

	tests := []struct {
		name    string
		photo   string
		want    string
		wantErr bool
	}{
		{"bare filename gets prefixed", "a.jpg", "photos/a.jpg", false},
		{"already prefixed passes through", "photos/b.jpg", "photos/b.jpg", false},
		{"absolute url untouched", "https://cdn.example.com/pano.jpg", "https://cdn.example.com/pano.jpg", false},
		{"absolute path untouched", "/static/pano.jpg", "/static/pano.jpg", false},
		{"missing photo", "nope.jpg", "", true},
		{"empty reference", "", "", true},
		{"directory escape", "../floorplan.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ResolvePhoto(tt.photo)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestListPhotos(t *testing.T) {
	s, _ := newTestStore(t)

	photos, err := s.ListPhotos(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].Name != "a.jpg" || photos[1].Name != "b.jpg" {
		t.Errorf("expected sorted names, got %s, %s", photos[0].Name, photos[1].Name)
	}

	limited, err := s.ListPhotos(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit of 1, got %d", len(limited))
	}
}
