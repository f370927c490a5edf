package models

import "fmt"

// Marker is one clickable dot positioned over the floorplan. X and Y are
// pixel offsets within the floorplan box the frame was rendered for.
type Marker struct {
	Index int     `json:"index" msgpack:"index"`
	Label string  `json:"label" msgpack:"label"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Photo string  `json:"photo" msgpack:"photo"`
}

// MarkerFrame is a complete redraw of the overlay: every render replaces the
// previous frame wholesale rather than patching it. Seq increases
// monotonically per tour so clients can discard frames that arrive late.
type MarkerFrame struct {
	Seq     uint64   `json:"seq" msgpack:"seq"`
	Width   float64  `json:"width" msgpack:"width"`
	Height  float64  `json:"height" msgpack:"height"`
	Markers []Marker `json:"markers" msgpack:"markers"`
}

func sceneLabel(index int) string {
	return fmt.Sprintf("Scene %d", index+1)
}
