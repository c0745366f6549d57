package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	nagerBaseURL       = "https://date.nager.at"
	defaultHTTPTimeout = 10 * time.Second
)

// NagerSource implements Source using the Nager.Date public holiday API
type NagerSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNagerSource creates a new NagerSource instance.
// An empty baseURL selects the public date.nager.at endpoint.
func NewNagerSource(baseURL string, timeout time.Duration, logger *zap.Logger) *NagerSource {
	if baseURL == "" {
		baseURL = nagerBaseURL
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NagerSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Holidays fetches the public holidays for country and year
func (s *NagerSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	country = NormalizeCountry(country)
	if country == "" {
		return nil, fmt.Errorf("country code is required")
	}

	// Build URL: https://date.nager.at/api/v3/PublicHolidays/2025/US
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", s.baseURL, year, country)

	s.logger.Debug("Fetching holidays from Nager.Date",
		zap.String("url", url),
		zap.String("country", country),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var hs []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		return nil, fmt.Errorf("failed to parse holidays: %w", err)
	}

	s.logger.Info("Holidays fetched from API",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(hs)))

	return hs, nil
}
