package store

import (
	"launchdeck/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// SchemaFunc returns the DDL for the opened driver
type SchemaFunc func(driver string) (string, error)

// WithLogger sets the logger used by the tracers and the retry loop
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithSchema applies the DDL from fn right after the driver connects.
// Several calls run in order; a failure closes the store and fails Open
func WithSchema(fn SchemaFunc) Option {
	return func(s *Store) error {
		if fn != nil {
			s.schemas = append(s.schemas, fn)
		}
		return nil
	}
}
