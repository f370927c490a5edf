package overlay

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestGeometry_Renderable(t *testing.T) {
	tests := []struct {
		name string
		geom Geometry
		want bool
	}{
		{"incomplete", Geometry{Width: 100, Height: 100}, false},
		{"complete with box", Geometry{Width: 100, Height: 100, Complete: true}, true},
		{"complete zero box no intrinsic", Geometry{Complete: true}, false},
		{"complete zero box with intrinsic", Geometry{IntrinsicWidth: 50, IntrinsicHeight: 50, Complete: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.geom.Renderable(); got != tt.want {
				t.Errorf("Renderable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracker_PollReadyExhaustion(t *testing.T) {
	tr := NewTracker(0, 0, zerolog.Nop())

	start := time.Now()
	_, ok := tr.PollReady(context.Background(), time.Millisecond, 5)
	if ok {
		t.Fatal("expected poll to give up on a never-ready floorplan")
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("poll gave up before exhausting its attempts")
	}
}

func TestTracker_PollReadySucceedsMidway(t *testing.T) {
	tr := NewTracker(0, 0, zerolog.Nop())

	go func() {
		time.Sleep(5 * time.Millisecond)
		tr.Update(320, 240)
	}()

	g, ok := tr.PollReady(context.Background(), 2*time.Millisecond, 50)
	if !ok {
		t.Fatal("expected poll to observe the update")
	}
	if w, h := g.Box(); w != 320 || h != 240 {
		t.Errorf("expected 320x240, got %vx%v", w, h)
	}
}

func TestTracker_WaitReady(t *testing.T) {
	tr := NewTracker(0, 0, zerolog.Nop())

	done := make(chan Geometry, 1)
	go func() {
		g, ok := tr.WaitReady(context.Background())
		if ok {
			done <- g
		}
	}()

	time.Sleep(5 * time.Millisecond)
	tr.Update(640, 480)

	select {
	case g := <-done:
		if w, h := g.Box(); w != 640 || h != 480 {
			t.Errorf("expected 640x480, got %vx%v", w, h)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitReady never woke up")
	}
}

func TestTracker_WaitReadyContextCancel(t *testing.T) {
	tr := NewTracker(0, 0, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, ok := tr.WaitReady(ctx); ok {
		t.Fatal("expected WaitReady to fail on context expiry")
	}
}

func TestTracker_IntrinsicSeed(t *testing.T) {
	tr := NewTracker(800, 600, zerolog.Nop())

	// Hidden floorplan: the client reports a zero box but the image itself
	// has loaded.
	tr.Update(0, 0)

	g := tr.Current()
	if !g.Renderable() {
		t.Fatal("expected intrinsic fallback to make the geometry renderable")
	}
	if w, h := g.Box(); w != 800 || h != 600 {
		t.Errorf("expected intrinsic 800x600, got %vx%v", w, h)
	}
}
