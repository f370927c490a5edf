package models

// ViewState is the camera state of the active panorama view. Fov is the zoom
// parameter; smaller means more zoomed in.
type ViewState struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Fov   float64 `json:"fov"`
}

// ViewInfo is the API representation of the currently active view.
type ViewInfo struct {
	Scene      string    `json:"scene"`
	Generation uint64    `json:"generation"`
	State      ViewState `json:"state"`
}
