package holidays

import (
	"context"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: any Source (usually the cached API source)
// Fallback: static FallbackTable
type CompositeSource struct {
	primary  Source
	fallback FallbackTable
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary Source, fallback FallbackTable, logger *zap.Logger) *CompositeSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Holidays returns the primary source's holidays, or the fallback table entry
// when the primary fails. The returned error is always nil.
func (cs *CompositeSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	if cs.primary != nil {
		hs, err := cs.primary.Holidays(ctx, country, year)
		if err == nil {
			return hs, nil
		}

		cs.logger.Warn("Primary holiday source failed, using fallback data",
			zap.String("country", country),
			zap.Int("year", year),
			zap.Error(err))
	}

	hs := cs.fallback.Lookup(country, year)
	cs.logger.Info("Using fallback holidays",
		zap.String("country", NormalizeCountry(country)),
		zap.Int("year", year),
		zap.Int("count", len(hs)))

	return hs, nil
}
