package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/holidays"
)

// ErrWarmInProgress is returned when a warm run is requested while one is running
var ErrWarmInProgress = errors.New("cache warm already in progress")

// Daemon periodically prefetches holidays so plan requests hit a warm cache
type Daemon struct {
	source    holidays.Source
	countries []string
	interval  time.Duration
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time

	mu          sync.Mutex // guards the fields below
	warmRunning bool
	lastRunTime time.Time
	lastErrors  int
	runs        int
}

// NewDaemon creates a cache warmer for the given countries
func NewDaemon(source holidays.Source, countries []string, interval time.Duration, logger *zap.Logger) *Daemon {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())

	normalized := make([]string, 0, len(countries))
	for _, c := range countries {
		if c = holidays.NormalizeCountry(c); c != "" {
			normalized = append(normalized, c)
		}
	}

	return &Daemon{
		source:    source,
		countries: normalized,
		interval:  interval,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// Start runs the warmer until SIGINT/SIGTERM or Stop
func (d *Daemon) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			d.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			d.Stop()
		case <-d.ctx.Done():
		}
	}()

	return d.Run(d.ctx)
}

// Run warms immediately and then every interval until ctx or the daemon is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("Cache warmer started",
		zap.Strings("countries", d.countries),
		zap.Duration("refresh_interval", d.interval))

	d.runWarm(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Cache warmer stopped")
			return nil

		case <-d.ctx.Done():
			d.logger.Info("Cache warmer stopped")
			return nil

		case <-ticker.C:
			d.runWarm(ctx)
		}
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) runWarm(ctx context.Context) {
	if _, err := d.WarmNow(ctx); err != nil && !errors.Is(err, ErrWarmInProgress) {
		d.logger.Error("Cache warm failed", zap.Error(err))
	}
}

// Years returns the years a warm run covers: the current and the next one
func (d *Daemon) Years() []int {
	year := d.now().Year()
	return []int{year, year + 1}
}

// WarmNow fetches every configured country for the current and next year.
// Failures for single entries are logged and counted; the error reports
// only whether every fetch failed.
func (d *Daemon) WarmNow(ctx context.Context) (int, error) {
	d.mu.Lock()
	if d.warmRunning {
		d.mu.Unlock()
		d.logger.Warn("Cache warm already running, skipping concurrent execution")
		return 0, ErrWarmInProgress
	}
	d.warmRunning = true
	d.mu.Unlock()

	warmed, failed := 0, 0
	defer func() {
		d.mu.Lock()
		d.warmRunning = false
		d.lastRunTime = d.now()
		d.lastErrors = failed
		d.runs++
		d.mu.Unlock()
	}()

	for _, country := range d.countries {
		for _, year := range d.Years() {
			if err := ctx.Err(); err != nil {
				return warmed, err
			}
			hs, err := d.source.Holidays(ctx, country, year)
			if err != nil {
				failed++
				d.logger.Warn("Failed to warm holidays",
					zap.String("country", country),
					zap.Int("year", year),
					zap.Error(err))
				continue
			}
			warmed++
			d.logger.Debug("Holidays warmed",
				zap.String("country", country),
				zap.Int("year", year),
				zap.Int("count", len(hs)))
		}
	}

	d.logger.Info("Cache warm completed",
		zap.Int("warmed", warmed),
		zap.Int("failed", failed))

	if warmed == 0 && failed > 0 {
		return 0, fmt.Errorf("all %d holiday fetches failed", failed)
	}
	return warmed, nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"countries":        d.countries,
		"refresh_interval": d.interval.String(),
		"running":          d.warmRunning,
		"runs":             d.runs,
	}
	if !d.lastRunTime.IsZero() {
		status["last_run"] = d.lastRunTime.UTC().Format(time.RFC3339)
		status["last_errors"] = d.lastErrors
		status["next_run"] = d.lastRunTime.Add(d.interval).UTC().Format(time.RFC3339)
	}
	return status
}
