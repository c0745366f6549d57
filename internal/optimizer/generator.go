package optimizer

import (
	"time"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

type dateSet map[string]struct{}

func newDateSet(dates []string) dateSet {
	s := make(dateSet, len(dates))
	for _, d := range dates {
		s[canonicalDate(d)] = struct{}{}
	}
	return s
}

func (s dateSet) has(t time.Time) bool {
	_, ok := s[dateutil.FormatDate(t)]
	return ok
}

// canonicalDate rewrites parseable dates as YYYY-MM-DD and keeps anything else verbatim
func canonicalDate(s string) string {
	if t, err := dateutil.ParseDate(s); err == nil {
		return dateutil.FormatDate(t)
	}
	return s
}

// daysOff is the set of non-working dates the classifier consults
type daysOff struct {
	holidays dateSet
	company  dateSet
}

func (d daysOff) isOff(t time.Time) bool {
	return d.holidays.has(t) || d.company.has(t)
}

func (d daysOff) isWorkday(t time.Time) bool {
	return dateutil.IsWeekday(t) && !d.isOff(t)
}

// buildOpportunity classifies every day of [start, end]. Weekends win over
// holidays, holidays over PTO.
func buildOpportunity(start, end time.Time, off daysOff, strategy Strategy) Opportunity {
	start = dateutil.StartOfDay(start)
	end = dateutil.StartOfDay(end)

	o := Opportunity{
		StartDate: start,
		EndDate:   end,
		Strategy:  strategy,
		PTODates:  []time.Time{},
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		o.TotalDays++
		switch {
		case dateutil.IsWeekend(d):
			o.WeekendDays++
		case off.isOff(d):
			o.HolidayDays++
		default:
			o.PTODaysNeeded++
			o.PTODates = append(o.PTODates, d)
		}
	}
	if o.PTODaysNeeded > 0 {
		o.Efficiency = float64(o.TotalDays) / float64(o.PTODaysNeeded)
	}
	return o
}

type generator struct {
	policy Policy
	year   int
	style  VacationStyle
	off    daysOff
}

// weekendExtensions joins a Monday or Friday holiday to the adjacent weekend
func (g generator) weekendExtensions(holiday time.Time) []Opportunity {
	var start, end, probe time.Time
	switch holiday.Weekday() {
	case time.Monday:
		probe = holiday.AddDate(0, 0, -g.policy.MondayExtensionOffset)
		start, end = probe, holiday
	case time.Friday:
		probe = holiday.AddDate(0, 0, g.policy.FridayExtensionOffset)
		start, end = holiday, probe
	default:
		return nil
	}
	if !g.off.isWorkday(probe) {
		return nil
	}
	o := buildOpportunity(start, end, g.off, StrategyWeekendExtension)
	if o.PTODaysNeeded == 0 {
		return nil
	}
	return []Opportunity{o}
}

// bridges spans whole calendar weeks from a holiday to the next day off
// found within the scan window
func (g generator) bridges(holiday time.Time) []Opportunity {
	for i := 1; i <= g.policy.BridgeScanDays; i++ {
		next := holiday.AddDate(0, 0, i)
		if !g.off.isOff(next) {
			continue
		}
		o := buildOpportunity(
			dateutil.StartOfWeek(holiday, g.policy.WeekStart),
			dateutil.EndOfWeek(next, g.policy.WeekStart),
			g.off, StrategyBridge,
		)
		if o.PTODaysNeeded == 0 {
			return nil
		}
		return []Opportunity{o}
	}
	return nil
}

// standalone fills sparse calendars with style-driven breaks. These ranges
// are evaluated without holiday knowledge, so any holiday inside them counts as PTO.
func (g generator) standalone() []Opportunity {
	switch g.style {
	case StyleLongWeekends:
		return g.longWeekends(g.policy.MaxLongWeekends)
	case StyleWeekLong:
		return g.weekLongBreaks(weekLongMonths)
	default:
		out := g.longWeekends(g.policy.BalancedLongWeekends)
		return append(out, g.weekLongBreaks(balancedMonths)...)
	}
}

func (g generator) longWeekends(limit int) []Opportunity {
	var out []Opportunity
	kept := 0
	for i, friday := range dateutil.FridaysOf(g.year) {
		if i%g.policy.LongWeekendSpacing != 0 {
			continue
		}
		if kept == limit {
			break
		}
		kept++
		o := buildOpportunity(friday, friday.AddDate(0, 0, g.policy.FridayExtensionOffset), daysOff{}, StrategyStandalone)
		if o.PTODaysNeeded > 0 && o.PTODaysNeeded <= g.policy.MaxLongWeekendPTO {
			out = append(out, o)
		}
	}
	return out
}

func (g generator) weekLongBreaks(months []time.Month) []Opportunity {
	var out []Opportunity
	for _, m := range months {
		start := dateutil.Date(g.year, m, g.policy.WeekLongStartDay)
		o := buildOpportunity(start, start.AddDate(0, 0, g.policy.WeekLongDays-1), daysOff{}, StrategyStandalone)
		if o.PTODaysNeeded > 0 {
			out = append(out, o)
		}
	}
	return out
}
