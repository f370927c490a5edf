// interfaces.go - Handler dependency interfaces, kept narrow for mocking
package api

import (
	"context"
	"time"

	"github.com/pano-tour/backend/internal/hotspot"
	"github.com/pano-tour/backend/internal/models"
	"github.com/pano-tour/backend/internal/session"
)

// HotspotStore is the dataset cache consumed by the hotspot handlers.
type HotspotStore interface {
	Load(ctx context.Context) ([]models.Hotspot, error)
	Get(ctx context.Context) ([]models.Hotspot, error)
	Cached() ([]models.Hotspot, bool)
	RecordErrors() []hotspot.RecordError
}

// TourManager is the session layer consumed by the tour handlers.
type TourManager interface {
	CreateTour() (*session.Tour, error)
	GetTour(id string) (*session.Tour, bool)
	Touch(id string) bool
	DeleteTour(id string) bool
	List() []models.TourInfo
	CleanupIdleTours(maxAge time.Duration)
}
