package planner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
)

// Plan is a single optimization run with the inputs that produced it
type Plan struct {
	Year        int                   `json:"year" yaml:"year"`
	Preferences optimizer.Preferences `json:"preferences" yaml:"preferences"`
	Holidays    []holidays.Holiday    `json:"holidays" yaml:"holidays"`
	Result      optimizer.Result      `json:"result" yaml:"result"`
	GeneratedAt time.Time             `json:"generatedAt" yaml:"generatedAt"`
}

// Manager wires a holiday source to the optimizer
type Manager struct {
	source    holidays.Source
	optimizer *optimizer.Optimizer
	logger    *zap.Logger
	now       func() time.Time
}

// NewManager creates a new planner
func NewManager(source holidays.Source, opt *optimizer.Optimizer, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		source:    source,
		optimizer: opt,
		logger:    logger,
		now:       time.Now,
	}
}

// Holidays returns the public holidays for country and year
func (m *Manager) Holidays(ctx context.Context, country string, year int) ([]holidays.Holiday, error) {
	country = holidays.NormalizeCountry(country)
	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidPreferences, year, minYear, maxYear)
	}

	hs, err := m.source.Holidays(ctx, country, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays for %s/%d: %w", country, year, err)
	}
	return hs, nil
}

// Plan validates prefs, loads holidays and runs the optimizer
func (m *Manager) Plan(ctx context.Context, prefs optimizer.Preferences, year int) (*Plan, error) {
	// 1. Normalize and validate input
	prefs = NormalizePreferences(prefs)
	if err := ValidatePreferences(prefs, year); err != nil {
		return nil, err
	}
	if prefs.VacationStyle == optimizer.StyleCustom {
		m.logger.Debug("Custom style has no generator, planning as balanced")
	}

	// 2. Load holidays
	hs, err := m.Holidays(ctx, prefs.Country, year)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Holidays loaded",
		zap.String("country", prefs.Country),
		zap.Int("year", year),
		zap.Int("count", len(hs)))

	// 3. Optimize
	res := m.optimizer.Optimize(hs, prefs, year)

	return &Plan{
		Year:        year,
		Preferences: prefs,
		Holidays:    hs,
		Result:      res,
		GeneratedAt: m.now().UTC(),
	}, nil
}
