package planner

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// ErrInvalidPreferences is returned when preferences fail validation
var ErrInvalidPreferences = errors.New("invalid preferences")

const (
	minYear = 1975
	maxYear = 2075
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var validate = newValidator()

// ValidatePreferences checks prefs for the given planning year.
// Pinned dates must fall inside that year.
func ValidatePreferences(prefs optimizer.Preferences, year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPreferences, year, minYear, maxYear)
	}

	if err := validate.Struct(prefs); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("%w: %s", ErrInvalidPreferences, describe(verrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}

	for _, p := range prefs.PinnedDates {
		d, err := dateutil.ParseDate(p)
		if err != nil {
			return fmt.Errorf("%w: pinned date: %v", ErrInvalidPreferences, err)
		}
		if d.Year() != year {
			return fmt.Errorf("%w: pinned date %s is not in %d", ErrInvalidPreferences, p, year)
		}
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// NormalizePreferences upper-cases the country, defaults the style to
// balanced and sorts and dedupes company holidays.
func NormalizePreferences(prefs optimizer.Preferences) optimizer.Preferences {
	prefs.Country = holidays.NormalizeCountry(prefs.Country)
	if prefs.VacationStyle == "" {
		prefs.VacationStyle = optimizer.StyleBalanced
	}
	prefs.VacationStyle = optimizer.VacationStyle(strings.ToLower(strings.TrimSpace(string(prefs.VacationStyle))))
	prefs.CompanyHolidays = normalizeDates(prefs.CompanyHolidays)
	prefs.PinnedDates = normalizeDates(prefs.PinnedDates)
	return prefs
}

func normalizeDates(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
