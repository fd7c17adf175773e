// Package store persists a schedule and the holiday cache.
//
// Saves are full snapshots. Every Load rebuilds the container through
// SetDateEvents and SetRepeatEvents, which re-sort both sequences and
// rebuild the recurring-event index.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/schedule"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

const (
	DriverSQLite = "sqlite"
	DriverYAML   = "yaml"
)

// Store loads and saves a schedule. Implementations also cache holidays.
type Store interface {
	holiday.Cache

	Save(ctx context.Context, c *schedule.Container) error
	Load(ctx context.Context) (*schedule.Container, error)
	// Path returns the file backing the store.
	Path() string
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverSQLite:
		return NewSQLite(cfg.Path, logger)
	case DriverYAML:
		return NewYAMLFile(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
