// Package holiday supplies public holidays and keeps them as full-day
// MultiEvents, one calendar year at a time.
package holiday

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/config"
)

// ErrUnexpectedStatus is returned when a holiday source answers with a non-OK status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

const (
	SourceNager = "nager"
	SourceICS   = "ics"
)

// Holiday is one named public holiday.
type Holiday struct {
	Name string
	Date time.Time
}

// Provider fetches the public holidays of a year.
type Provider interface {
	Holidays(ctx context.Context, year int) ([]Holiday, error)
}

// NewProvider creates the provider selected by cfg.Source.
func NewProvider(cfg config.HolidayConfig, logger *zap.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceNager:
		return NewNagerClient(cfg.BaseURL, cfg.Country, logger)
	case SourceICS:
		return NewICSProvider(cfg.ICSURL, logger)
	default:
		return nil, fmt.Errorf("unsupported holiday source: %s", cfg.Source)
	}
}
