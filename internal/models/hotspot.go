// Package models contains domain types for the panorama tour backend.
package models

// Hotspot is a named location on the floorplan linking to a panorama scene.
// X and Y are fractions of the floorplan display box in [0,1]. Because they
// are independent of the viewport size, markers derived from them reposition
// correctly when the floorplan is resized.
type Hotspot struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Photo    string  `json:"photo"`
	Filename string  `json:"filename,omitempty"`
}

// Label returns the display label for a hotspot at the given zero-based
// position in the dataset: the filename when present, otherwise a
// synthesized 1-based scene name.
func (h Hotspot) Label(index int) string {
	if h.Filename != "" {
		return h.Filename
	}
	return sceneLabel(index)
}
