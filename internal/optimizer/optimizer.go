package optimizer

import (
	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// Optimizer proposes PTO dates that maximize consecutive days off
type Optimizer struct {
	policy Policy
	logger *zap.Logger
}

// New creates an optimizer with the given policy
func New(policy Policy, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{
		policy: policy,
		logger: logger,
	}
}

// Optimize runs the heuristic with DefaultPolicy
func Optimize(hs []holidays.Holiday, prefs Preferences, year int) Result {
	return New(DefaultPolicy(), nil).Optimize(hs, prefs, year)
}

// Policy returns the policy the optimizer runs with
func (o *Optimizer) Policy() Policy {
	return o.policy
}

// Optimize selects vacation blocks for year. It is a pure function of its
// inputs and never fails; an empty result means nothing cleared the thresholds.
func (o *Optimizer) Optimize(hs []holidays.Holiday, prefs Preferences, year int) Result {
	// 1. Generate and deduplicate candidates
	candidates := o.Opportunities(hs, prefs, year)

	// 2. Greedy selection against the budget
	accepted, remaining := Select(candidates, prefs.TotalPTODays, o.policy)

	// 3. Aggregate
	res := Aggregate(accepted, prefs.TotalPTODays, remaining)

	o.logger.Info("Optimization complete",
		zap.String("country", prefs.Country),
		zap.Int("year", year),
		zap.String("style", string(prefs.VacationStyle)),
		zap.Int("candidates", len(candidates)),
		zap.Int("blocks", len(res.VacationBlocks)),
		zap.Int("pto_used", res.PTOUsed),
		zap.Int("days_off", res.TotalDaysOff),
		zap.Int("efficiency", res.Efficiency))

	return res
}

// Opportunities returns the deduplicated candidates in generation order:
// per holiday its weekend extension then its bridge, followed by standalone
// breaks when the calendar is sparse.
func (o *Optimizer) Opportunities(hs []holidays.Holiday, prefs Preferences, year int) []Opportunity {
	g := generator{
		policy: o.policy,
		year:   year,
		style:  prefs.VacationStyle,
		off: daysOff{
			holidays: newDateSet(holidays.Dates(hs)),
			company:  newDateSet(prefs.CompanyHolidays),
		},
	}

	var opportunities []Opportunity
	for _, h := range hs {
		date, err := dateutil.ParseDate(h.Date)
		if err != nil {
			o.logger.Warn("Skipping holiday with unparseable date",
				zap.String("date", h.Date),
				zap.String("name", h.Name))
			continue
		}
		opportunities = append(opportunities, g.weekendExtensions(date)...)
		opportunities = append(opportunities, g.bridges(date)...)
	}

	if len(opportunities) < o.policy.StandaloneThreshold {
		standalone := g.standalone()
		o.logger.Debug("Adding standalone opportunities",
			zap.Int("holiday_based", len(opportunities)),
			zap.Int("standalone", len(standalone)))
		opportunities = append(opportunities, standalone...)
	}

	deduped := Deduplicate(opportunities)
	for _, op := range deduped {
		o.logger.Debug("Candidate", zap.Stringer("opportunity", op))
	}
	return deduped
}
