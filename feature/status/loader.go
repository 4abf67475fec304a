package status

import (
	"m3u-guardian/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the status feature.
func NewFeature(tracker *Tracker, store reconcile.DocumentStore, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(NewService(tracker, store, logger))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "status"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
