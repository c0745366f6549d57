package holidays

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by caches on a miss
var ErrNotFound = errors.New("holidays not found")

// Holiday represents one public-holiday occurrence for a country and year
type Holiday struct {
	Date        string   `json:"date" yaml:"date"`
	LocalName   string   `json:"localName" yaml:"localName"`
	Name        string   `json:"name" yaml:"name"`
	CountryCode string   `json:"countryCode" yaml:"countryCode"`
	Fixed       bool     `json:"fixed" yaml:"fixed"`
	Global      bool     `json:"global" yaml:"global"`
	Counties    []string `json:"counties,omitempty" yaml:"counties,omitempty"`
	LaunchYear  *int     `json:"launchYear,omitempty" yaml:"launchYear,omitempty"`
	Types       []string `json:"types" yaml:"types"`
}

// Source supplies the public holidays of a country for a year
type Source interface {
	// Holidays returns the holidays for the ISO 3166-1 alpha-2 country code and year
	Holidays(ctx context.Context, country string, year int) ([]Holiday, error)
}

// NormalizeCountry upper-cases and trims a country code
func NormalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}

// Dates returns the date strings of the given holidays in input order
func Dates(hs []Holiday) []string {
	dates := make([]string, 0, len(hs))
	for _, h := range hs {
		dates = append(dates, h.Date)
	}
	return dates
}

func cacheKey(country string, year int) string {
	return fmt.Sprintf("holidays:%s:%d", NormalizeCountry(country), year)
}
