package viewer

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pano-tour/backend/internal/models"
	"github.com/rs/zerolog"
)

// passthroughResolver resolves every photo to itself.
type passthroughResolver struct{}

func (passthroughResolver) ResolvePhoto(photo string) (string, error) {
	return photo, nil
}

// failingResolver rejects every photo.
type failingResolver struct{}

func (failingResolver) ResolvePhoto(photo string) (string, error) {
	return "", fmt.Errorf("photo not found: %s", photo)
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(passthroughResolver{}, DefaultLimits(), zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create adapter: %v", err)
	}
	return a
}

func TestNewAdapter_NoResolver(t *testing.T) {
	if _, err := NewAdapter(nil, DefaultLimits(), zerolog.Nop()); err == nil {
		t.Fatal("expected error when the resolver is absent")
	}
}

func TestLoadScene_InitialState(t *testing.T) {
	a := newTestAdapter(t)

	info, err := a.LoadScene(context.Background(), "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Scene != "a.jpg" {
		t.Errorf("expected scene a.jpg, got %s", info.Scene)
	}
	if info.State.Yaw != 0 || info.State.Pitch != 0 || info.State.Fov != 1.2 {
		t.Errorf("unexpected initial state: %+v", info.State)
	}
	if !a.Transitioning() {
		t.Error("expected view to be inside the transition window")
	}
}

func TestLoadScene_ReplacesCurrentView(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	first, err := a.LoadScene(ctx, "a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zoom the first view so the replacement is observable.
	if _, err := a.Zoom(50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := a.LoadScene(ctx, "b.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Generation <= first.Generation {
		t.Errorf("expected generation to increase: %d -> %d", first.Generation, second.Generation)
	}
	if second.State.Fov != 1.2 {
		t.Errorf("expected zoom state of the previous view to be invalidated, fov=%v", second.State.Fov)
	}
	if a.Scene() != "b.jpg" {
		t.Errorf("expected active scene b.jpg, got %s", a.Scene())
	}
}

func TestLoadScene_ResolverFailure(t *testing.T) {
	a, err := NewAdapter(failingResolver{}, DefaultLimits(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.LoadScene(context.Background(), "missing.jpg"); err == nil {
		t.Fatal("expected error for unresolvable photo")
	}
	if _, err := a.View(); err != ErrNoActiveView {
		t.Errorf("expected ErrNoActiveView, got %v", err)
	}
}

func TestZoom_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{"zoom far out", []float64{1000, 1000}, 1.5},
		{"zoom far in", []float64{-1000, -1000}, 0.4},
		{"small step", []float64{100}, 1.2 + 100*0.004},
		{"out then back", []float64{1000, -100}, 1.5 - 100*0.004},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t)
			if _, err := a.LoadScene(context.Background(), "a.jpg"); err != nil {
				t.Fatal(err)
			}

			var last float64
			for _, d := range tt.deltas {
				state, err := a.Zoom(d)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				last = state.Fov
				if state.Fov < 0.4 || state.Fov > 1.5 {
					t.Fatalf("fov %v escaped [0.4, 1.5]", state.Fov)
				}
			}
			if math.Abs(last-tt.want) > 1e-9 {
				t.Errorf("expected fov %v, got %v", tt.want, last)
			}
		})
	}
}

func TestZoom_NoActiveView(t *testing.T) {
	a := newTestAdapter(t)
	if _, err := a.Zoom(10); err != ErrNoActiveView {
		t.Errorf("expected ErrNoActiveView, got %v", err)
	}
}

func TestAdvance_AutorotateDrift(t *testing.T) {
	a := newTestAdapter(t)
	if _, err := a.LoadScene(context.Background(), "a.jpg"); err != nil {
		t.Fatal(err)
	}

	a.Advance(time.Second)

	info, err := a.View()
	if err != nil {
		t.Fatal(err)
	}
	// One second at 60fps equivalence advances yaw by 60 * 0.02.
	if math.Abs(info.State.Yaw-1.2) > 1e-9 {
		t.Errorf("expected yaw 1.2 after 1s, got %v", info.State.Yaw)
	}
}

func TestAdvance_EasesFovBack(t *testing.T) {
	a := newTestAdapter(t)
	if _, err := a.LoadScene(context.Background(), "a.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Zoom(-100); err != nil {
		t.Fatal(err)
	}

	// Manual zoom stops autorotation, so the fov must stay put.
	before, _ := a.View()
	a.Advance(time.Second)
	after, _ := a.View()
	if after.State.Fov != before.State.Fov {
		t.Errorf("expected fov to hold after manual zoom, %v -> %v", before.State.Fov, after.State.Fov)
	}

	// A fresh scene restarts autorotation and the ease-back with it.
	if _, err := a.LoadScene(context.Background(), "b.jpg"); err != nil {
		t.Fatal(err)
	}
	a.Advance(100 * time.Millisecond)
	info, _ := a.View()
	if info.State.Fov < 0.4 || info.State.Fov > 1.5 {
		t.Errorf("fov %v escaped limits during autorotation", info.State.Fov)
	}
}

func TestOnChange_Notified(t *testing.T) {
	a := newTestAdapter(t)
	var events []models.ViewInfo
	a.OnChange(func(info models.ViewInfo) {
		events = append(events, info)
	})

	if _, err := a.LoadScene(context.Background(), "a.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Zoom(50); err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(events))
	}
	if events[0].Scene != "a.jpg" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].State.Fov != 1.2+50*0.004 {
		t.Errorf("unexpected zoom event: %+v", events[1])
	}
}
