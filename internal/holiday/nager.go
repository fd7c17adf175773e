package holiday

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

const defaultNagerBaseURL = "https://date.nager.at/api/v3"

// NagerClient fetches holidays from the Nager.Date public holiday API.
type NagerClient struct {
	baseURL    string
	country    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type nagerHoliday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// NewNagerClient creates a client for country (ISO 3166-1 alpha-2).
func NewNagerClient(baseURL, country string, logger *zap.Logger) (*NagerClient, error) {
	if country == "" {
		return nil, errors.New("holiday country is required")
	}
	if baseURL == "" {
		baseURL = defaultNagerBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NagerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		country:    strings.ToUpper(country),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		// The public API is shared; stay well under its limits.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		logger:  logger,
	}, nil
}

// Holidays returns the public holidays of year, in date order.
func (c *NagerClient) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, c.country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching holidays", zap.String("url", url))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var raw []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding holidays: %w", err)
	}

	out := make([]Holiday, 0, len(raw))
	for _, h := range raw {
		date, err := time.Parse(dateutil.DateLayout, h.Date)
		if err != nil {
			c.logger.Warn("skipping holiday with bad date", zap.String("name", h.Name), zap.String("date", h.Date))
			continue
		}
		out = append(out, Holiday{Name: h.Name, Date: date})
	}
	c.logger.Info("fetched holidays",
		zap.String("country", c.country),
		zap.Int("year", year),
		zap.Int("count", len(out)),
	)
	return out, nil
}
