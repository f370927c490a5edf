package models

import "time"

// AssetInfo represents metadata about a registered image asset: the floorplan
// or a panorama photo. Width and Height are intrinsic pixel dimensions probed
// from the image header, zero when the asset has not been decoded yet.
type AssetInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}
