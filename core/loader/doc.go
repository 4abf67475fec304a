// Package loader registers the features that make up the optional HTTP
// surface of a guardian session.
//
// Each feature implements Feature:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager keeps them in registration order; LoadAll mounts the enabled ones.
package loader
