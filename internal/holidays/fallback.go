package holidays

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FallbackTable maps a country code to its static holiday list.
// It is the substitute used when the primary source cannot answer.
type FallbackTable map[string][]Holiday

// Lookup returns the country's holidays that fall in year, in table order.
// Entries are not shifted to other years: a year the table has no rows for
// (the built-in table only carries 2025) yields an empty list, as do unknown
// countries.
func (t FallbackTable) Lookup(country string, year int) []Holiday {
	country = NormalizeCountry(country)
	prefix := strconv.Itoa(year) + "-"

	result := []Holiday{}
	for _, h := range t[country] {
		if !strings.HasPrefix(h.Date, prefix) {
			continue
		}
		if h.CountryCode == "" {
			h.CountryCode = country
		}
		result = append(result, h)
	}
	return result
}

// Holidays implements Source; it never fails
func (t FallbackTable) Holidays(_ context.Context, country string, year int) ([]Holiday, error) {
	return t.Lookup(country, year), nil
}

// Merge returns a new table where the countries of other replace those of t
func (t FallbackTable) Merge(other FallbackTable) FallbackTable {
	merged := make(FallbackTable, len(t)+len(other))
	for country, hs := range t {
		merged[country] = hs
	}
	for country, hs := range other {
		merged[NormalizeCountry(country)] = hs
	}
	return merged
}

// LoadFallbackFile loads a YAML fallback table from file.
// Format: a mapping of country code to a list of holidays.
//
//	US:
//	  - date: "2025-07-04"
//	    name: Independence Day
func LoadFallbackFile(path string, logger *zap.Logger) (FallbackTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fallback file: %w", err)
	}

	var raw map[string][]Holiday
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fallback file: %w", err)
	}

	table := make(FallbackTable, len(raw))
	total := 0
	for country, hs := range raw {
		code := NormalizeCountry(country)
		for i := range hs {
			if hs[i].LocalName == "" {
				hs[i].LocalName = hs[i].Name
			}
			if hs[i].CountryCode == "" {
				hs[i].CountryCode = code
			}
		}
		table[code] = hs
		total += len(hs)
	}

	if logger != nil {
		logger.Info("Fallback holiday file loaded",
			zap.String("file", path),
			zap.Int("countries", len(table)),
			zap.Int("holidays", total))
	}

	return table, nil
}

func publicHoliday(date, localName, name, country string, fixed bool) Holiday {
	return Holiday{
		Date:        date,
		LocalName:   localName,
		Name:        name,
		CountryCode: country,
		Fixed:       fixed,
		Global:      true,
		Types:       []string{"Public"},
	}
}

// DefaultFallbackTable returns the built-in 2025 holiday lists
func DefaultFallbackTable() FallbackTable {
	return FallbackTable{
		"US": {
			publicHoliday("2025-01-01", "New Year's Day", "New Year's Day", "US", true),
			publicHoliday("2025-01-20", "Martin Luther King Jr. Day", "Martin Luther King Jr. Day", "US", false),
			publicHoliday("2025-02-17", "Presidents' Day", "Presidents' Day", "US", false),
			publicHoliday("2025-05-26", "Memorial Day", "Memorial Day", "US", false),
			publicHoliday("2025-07-04", "Independence Day", "Independence Day", "US", true),
			publicHoliday("2025-09-01", "Labor Day", "Labor Day", "US", false),
			publicHoliday("2025-10-13", "Columbus Day", "Columbus Day", "US", false),
			publicHoliday("2025-11-11", "Veterans Day", "Veterans Day", "US", true),
			publicHoliday("2025-11-27", "Thanksgiving Day", "Thanksgiving Day", "US", false),
			publicHoliday("2025-12-25", "Christmas Day", "Christmas Day", "US", true),
		},
		"CA": {
			publicHoliday("2025-01-01", "New Year's Day", "New Year's Day", "CA", true),
			publicHoliday("2025-04-18", "Good Friday", "Good Friday", "CA", false),
			publicHoliday("2025-05-19", "Victoria Day", "Victoria Day", "CA", false),
			publicHoliday("2025-07-01", "Canada Day", "Canada Day", "CA", true),
			publicHoliday("2025-09-01", "Labour Day", "Labour Day", "CA", false),
			publicHoliday("2025-10-13", "Thanksgiving", "Thanksgiving", "CA", false),
			publicHoliday("2025-12-25", "Christmas Day", "Christmas Day", "CA", true),
			publicHoliday("2025-12-26", "Boxing Day", "Boxing Day", "CA", true),
		},
		"GB": {
			publicHoliday("2025-01-01", "New Year's Day", "New Year's Day", "GB", true),
			publicHoliday("2025-04-18", "Good Friday", "Good Friday", "GB", false),
			publicHoliday("2025-04-21", "Easter Monday", "Easter Monday", "GB", false),
			publicHoliday("2025-05-05", "Early May Bank Holiday", "Early May Bank Holiday", "GB", false),
			publicHoliday("2025-05-26", "Spring Bank Holiday", "Spring Bank Holiday", "GB", false),
			publicHoliday("2025-08-25", "Summer Bank Holiday", "Summer Bank Holiday", "GB", false),
			publicHoliday("2025-12-25", "Christmas Day", "Christmas Day", "GB", true),
			publicHoliday("2025-12-26", "Boxing Day", "Boxing Day", "GB", true),
		},
		"DE": {
			publicHoliday("2025-01-01", "Neujahr", "New Year's Day", "DE", true),
			publicHoliday("2025-04-18", "Karfreitag", "Good Friday", "DE", false),
			publicHoliday("2025-04-21", "Ostermontag", "Easter Monday", "DE", false),
			publicHoliday("2025-05-01", "Tag der Arbeit", "Labour Day", "DE", true),
			publicHoliday("2025-05-29", "Christi Himmelfahrt", "Ascension Day", "DE", false),
			publicHoliday("2025-06-09", "Pfingstmontag", "Whit Monday", "DE", false),
			publicHoliday("2025-10-03", "Tag der Deutschen Einheit", "German Unity Day", "DE", true),
			publicHoliday("2025-12-25", "1. Weihnachtsfeiertag", "Christmas Day", "DE", true),
			publicHoliday("2025-12-26", "2. Weihnachtsfeiertag", "Boxing Day", "DE", true),
		},
		"FR": {
			publicHoliday("2025-01-01", "Jour de l'An", "New Year's Day", "FR", true),
			publicHoliday("2025-04-21", "Lundi de Pâques", "Easter Monday", "FR", false),
			publicHoliday("2025-05-01", "Fête du Travail", "Labour Day", "FR", true),
			publicHoliday("2025-05-08", "Fête de la Victoire", "Victory in Europe Day", "FR", true),
			publicHoliday("2025-05-29", "Ascension", "Ascension Day", "FR", false),
			publicHoliday("2025-06-09", "Lundi de Pentecôte", "Whit Monday", "FR", false),
			publicHoliday("2025-07-14", "Fête nationale", "Bastille Day", "FR", true),
			publicHoliday("2025-08-15", "Assomption", "Assumption of Mary", "FR", true),
			publicHoliday("2025-11-01", "Toussaint", "All Saints' Day", "FR", true),
			publicHoliday("2025-11-11", "Armistice", "Armistice Day", "FR", true),
			publicHoliday("2025-12-25", "Noël", "Christmas Day", "FR", true),
		},
		"AU": {
			publicHoliday("2025-01-01", "New Year's Day", "New Year's Day", "AU", true),
			publicHoliday("2025-01-27", "Australia Day", "Australia Day", "AU", true),
			publicHoliday("2025-04-18", "Good Friday", "Good Friday", "AU", false),
			publicHoliday("2025-04-21", "Easter Monday", "Easter Monday", "AU", false),
			publicHoliday("2025-04-25", "Anzac Day", "Anzac Day", "AU", true),
			publicHoliday("2025-12-25", "Christmas Day", "Christmas Day", "AU", true),
			publicHoliday("2025-12-26", "Boxing Day", "Boxing Day", "AU", true),
		},
		"JP": {
			publicHoliday("2025-01-01", "元日", "New Year's Day", "JP", true),
			publicHoliday("2025-01-13", "成人の日", "Coming of Age Day", "JP", false),
			publicHoliday("2025-02-11", "建国記念の日", "National Foundation Day", "JP", true),
			publicHoliday("2025-03-20", "春分の日", "Vernal Equinox Day", "JP", false),
			publicHoliday("2025-04-29", "昭和の日", "Showa Day", "JP", true),
			publicHoliday("2025-05-03", "憲法記念日", "Constitution Memorial Day", "JP", true),
			publicHoliday("2025-05-04", "みどりの日", "Greenery Day", "JP", true),
			publicHoliday("2025-05-05", "こどもの日", "Children's Day", "JP", true),
			publicHoliday("2025-07-21", "海の日", "Marine Day", "JP", false),
			publicHoliday("2025-08-11", "山の日", "Mountain Day", "JP", true),
			publicHoliday("2025-09-15", "敬老の日", "Respect for the Aged Day", "JP", false),
			publicHoliday("2025-09-23", "秋分の日", "Autumnal Equinox Day", "JP", false),
			publicHoliday("2025-10-13", "スポーツの日", "Sports Day", "JP", false),
			publicHoliday("2025-11-03", "文化の日", "Culture Day", "JP", true),
			publicHoliday("2025-11-23", "勤労感謝の日", "Labour Thanksgiving Day", "JP", true),
		},
		"IN": {
			publicHoliday("2025-01-26", "Republic Day", "Republic Day", "IN", true),
			publicHoliday("2025-08-15", "Independence Day", "Independence Day", "IN", true),
			publicHoliday("2025-10-02", "Gandhi Jayanti", "Gandhi Jayanti", "IN", true),
		},
	}
}
