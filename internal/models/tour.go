package models

import "time"

// PanelState is the visibility state of the floorplan map panel.
type PanelState string

const (
	PanelHidden  PanelState = "hidden"
	PanelVisible PanelState = "visible"
)

// TourInfo is the API representation of an active tour session.
type TourInfo struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	Panel     PanelState `json:"panel"`
	Scene     string     `json:"scene,omitempty"`
}
