package optimizer

import (
	"reflect"
	"testing"
	"time"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

func holidayList(dates ...string) []holidays.Holiday {
	hs := make([]holidays.Holiday, 0, len(dates))
	for _, d := range dates {
		hs = append(hs, holidays.Holiday{Date: d, Name: "Holiday " + d, CountryCode: "US"})
	}
	return hs
}

func findOpportunity(t *testing.T, opps []Opportunity, start, end string) Opportunity {
	t.Helper()
	for _, o := range opps {
		if dateutil.FormatDate(o.StartDate) == start && dateutil.FormatDate(o.EndDate) == end {
			return o
		}
	}
	t.Fatalf("opportunity %s..%s not found in %v", start, end, opps)
	return Opportunity{}
}

func TestOptimizeZeroBudget(t *testing.T) {
	prefs := Preferences{TotalPTODays: 0, Country: "US", VacationStyle: StyleBalanced}
	res := Optimize(holidays.DefaultFallbackTable().Lookup("US", 2025), prefs, 2025)

	if len(res.VacationBlocks) != 0 {
		t.Errorf("VacationBlocks = %v, want empty", res.VacationBlocks)
	}
	if len(res.SuggestedPTO) != 0 {
		t.Errorf("SuggestedPTO = %v, want empty", res.SuggestedPTO)
	}
	if res.PTOUsed != 0 || res.Efficiency != 0 || res.TotalDaysOff != 0 {
		t.Errorf("totals = (%d, %d, %d), want zeros", res.PTOUsed, res.Efficiency, res.TotalDaysOff)
	}
	if res.VacationBlocks == nil || res.SuggestedPTO == nil {
		t.Error("result slices should be empty, not nil")
	}
}

func TestOptimizeFridayHoliday(t *testing.T) {
	prefs := Preferences{TotalPTODays: 5, Country: "US", VacationStyle: StyleBalanced}
	hs := holidayList("2025-07-04")

	o := New(DefaultPolicy(), nil)
	opp := findOpportunity(t, o.Opportunities(hs, prefs, 2025), "2025-07-04", "2025-07-07")
	if opp.PTODaysNeeded != 1 {
		t.Errorf("PTODaysNeeded = %d, want 1", opp.PTODaysNeeded)
	}
	if opp.Efficiency != 4.0 {
		t.Errorf("Efficiency = %v, want 4", opp.Efficiency)
	}
	if opp.Strategy != StrategyWeekendExtension {
		t.Errorf("Strategy = %s, want %s", opp.Strategy, StrategyWeekendExtension)
	}

	res := o.Optimize(hs, prefs, 2025)
	wantBlocks := []VacationBlock{
		{StartDate: "2025-07-04", EndDate: "2025-07-07", TotalDays: 4, PTODays: 1, WeekendDays: 2, HolidayDays: 1},
		{StartDate: "2025-01-03", EndDate: "2025-01-06", TotalDays: 4, PTODays: 2, WeekendDays: 2},
	}
	if !reflect.DeepEqual(res.VacationBlocks, wantBlocks) {
		t.Errorf("VacationBlocks = %+v, want %+v", res.VacationBlocks, wantBlocks)
	}

	wantPTO := []PTODay{
		{Date: "2025-07-07", Type: PTODaySuggested, Reason: "Part of 4-day vacation block"},
		{Date: "2025-01-03", Type: PTODaySuggested, Reason: "Part of 4-day vacation block"},
		{Date: "2025-01-06", Type: PTODaySuggested, Reason: "Part of 4-day vacation block"},
	}
	if !reflect.DeepEqual(res.SuggestedPTO, wantPTO) {
		t.Errorf("SuggestedPTO = %+v, want %+v", res.SuggestedPTO, wantPTO)
	}
	if res.PTOUsed != 3 || res.TotalDaysOff != 8 || res.Efficiency != 267 {
		t.Errorf("totals = (used %d, off %d, eff %d), want (3, 8, 267)", res.PTOUsed, res.TotalDaysOff, res.Efficiency)
	}
}

func TestBridgeSpansContainingWeeks(t *testing.T) {
	prefs := Preferences{
		TotalPTODays:    10,
		Country:         "US",
		CompanyHolidays: []string{"2025-12-29"},
		VacationStyle:   StyleBalanced,
	}
	opps := New(DefaultPolicy(), nil).Opportunities(holidayList("2025-12-25"), prefs, 2025)

	opp := findOpportunity(t, opps, "2025-12-21", "2026-01-03")
	if opp.Strategy != StrategyBridge {
		t.Errorf("Strategy = %s, want %s", opp.Strategy, StrategyBridge)
	}
	if opp.TotalDays != 14 || opp.WeekendDays != 4 || opp.HolidayDays != 2 || opp.PTODaysNeeded != 8 {
		t.Errorf("counts = (total %d, weekend %d, holiday %d, pto %d), want (14, 4, 2, 8)",
			opp.TotalDays, opp.WeekendDays, opp.HolidayDays, opp.PTODaysNeeded)
	}
	for _, d := range opp.PTODates {
		if s := dateutil.FormatDate(d); s == "2025-12-25" || s == "2025-12-29" {
			t.Errorf("PTODates contains day off %s", s)
		}
	}
}

func TestBridgeMondayWeekStart(t *testing.T) {
	policy := DefaultPolicy()
	policy.WeekStart = time.Monday
	prefs := Preferences{Country: "US", CompanyHolidays: []string{"2025-12-29"}}

	opps := New(policy, nil).Opportunities(holidayList("2025-12-25"), prefs, 2025)
	opp := findOpportunity(t, opps, "2025-12-22", "2026-01-04")
	if opp.PTODaysNeeded != 8 {
		t.Errorf("PTODaysNeeded = %d, want 8", opp.PTODaysNeeded)
	}
}

func TestStandaloneWeekLong(t *testing.T) {
	prefs := Preferences{TotalPTODays: 20, Country: "US", VacationStyle: StyleWeekLong}
	opps := New(DefaultPolicy(), nil).Opportunities(nil, prefs, 2025)

	if len(opps) != 4 {
		t.Fatalf("len(opportunities) = %d, want 4", len(opps))
	}
	wantStarts := []string{"2025-03-15", "2025-06-15", "2025-09-15", "2025-11-15"}
	for i, o := range opps {
		if o.TotalDays != 7 {
			t.Errorf("opportunity %d TotalDays = %d, want 7", i, o.TotalDays)
		}
		if got := dateutil.FormatDate(o.StartDate); got != wantStarts[i] {
			t.Errorf("opportunity %d StartDate = %s, want %s", i, got, wantStarts[i])
		}
		if o.PTODaysNeeded != 5 {
			t.Errorf("opportunity %d PTODaysNeeded = %d, want 5", i, o.PTODaysNeeded)
		}
	}
}

func TestStandaloneLongWeekends(t *testing.T) {
	prefs := Preferences{TotalPTODays: 15, Country: "US", VacationStyle: StyleLongWeekends}
	o := New(DefaultPolicy(), nil)

	opps := o.Opportunities(nil, prefs, 2025)
	wantStarts := []string{
		"2025-01-03", "2025-01-31", "2025-02-28", "2025-03-28",
		"2025-04-25", "2025-05-23", "2025-06-20", "2025-07-18",
	}
	if len(opps) != len(wantStarts) {
		t.Fatalf("len(opportunities) = %d, want %d", len(opps), len(wantStarts))
	}
	for i, op := range opps {
		if got := dateutil.FormatDate(op.StartDate); got != wantStarts[i] {
			t.Errorf("opportunity %d StartDate = %s, want %s", i, got, wantStarts[i])
		}
		if op.PTODaysNeeded != 2 || op.TotalDays != 4 {
			t.Errorf("opportunity %d = (pto %d, total %d), want (2, 4)", i, op.PTODaysNeeded, op.TotalDays)
		}
	}

	// block cap stops selection before the budget runs out
	res := o.Optimize(nil, prefs, 2025)
	if len(res.VacationBlocks) != 6 {
		t.Errorf("len(VacationBlocks) = %d, want 6", len(res.VacationBlocks))
	}
	if res.PTOUsed != 12 || res.Efficiency != 200 {
		t.Errorf("totals = (used %d, eff %d), want (12, 200)", res.PTOUsed, res.Efficiency)
	}
}

func TestCustomStyleMatchesBalanced(t *testing.T) {
	hs := holidayList("2025-07-04")
	balanced := Optimize(hs, Preferences{TotalPTODays: 10, Country: "US", VacationStyle: StyleBalanced}, 2025)
	custom := Optimize(hs, Preferences{TotalPTODays: 10, Country: "US", VacationStyle: StyleCustom}, 2025)

	if !reflect.DeepEqual(balanced, custom) {
		t.Errorf("custom = %+v, want balanced %+v", custom, balanced)
	}
}

func TestWeekendExtensions(t *testing.T) {
	tests := []struct {
		name      string
		holidays  []string
		company   []string
		wantRange [2]string
		wantPTO   int
		wantNone  bool
	}{
		{
			name:      "monday holiday reaches back to thursday",
			holidays:  []string{"2025-05-26"},
			wantRange: [2]string{"2025-05-22", "2025-05-26"},
			wantPTO:   2,
		},
		{
			name:      "friday holiday extends to monday",
			holidays:  []string{"2025-07-04"},
			wantRange: [2]string{"2025-07-04", "2025-07-07"},
			wantPTO:   1,
		},
		{
			name:     "monday after friday holiday is a company holiday",
			holidays: []string{"2025-07-04"},
			company:  []string{"2025-07-07"},
			wantNone: true,
		},
		{
			name:     "midweek holiday",
			holidays: []string{"2025-11-27"},
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := generator{
				policy: DefaultPolicy(),
				year:   2025,
				off:    daysOff{holidays: newDateSet(tt.holidays), company: newDateSet(tt.company)},
			}
			date, _ := dateutil.ParseDate(tt.holidays[0])
			got := g.weekendExtensions(date)

			if tt.wantNone {
				if len(got) != 0 {
					t.Errorf("weekendExtensions(%s) = %v, want none", tt.holidays[0], got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("weekendExtensions(%s) returned %d opportunities, want 1", tt.holidays[0], len(got))
			}
			if got[0].Key() != tt.wantRange[0]+"-"+tt.wantRange[1] {
				t.Errorf("range = %s, want %s..%s", got[0].Key(), tt.wantRange[0], tt.wantRange[1])
			}
			if got[0].PTODaysNeeded != tt.wantPTO {
				t.Errorf("PTODaysNeeded = %d, want %d", got[0].PTODaysNeeded, tt.wantPTO)
			}
		})
	}
}

func TestBuildOpportunity(t *testing.T) {
	off := daysOff{holidays: newDateSet([]string{"2025-04-18", "2025-04-21"})}
	o := buildOpportunity(dateutil.Date(2025, time.April, 13), dateutil.Date(2025, time.April, 26), off, StrategyBridge)

	if o.TotalDays != o.PTODaysNeeded+o.WeekendDays+o.HolidayDays {
		t.Errorf("TotalDays %d != %d + %d + %d", o.TotalDays, o.PTODaysNeeded, o.WeekendDays, o.HolidayDays)
	}
	if o.TotalDays != 14 || o.WeekendDays != 4 || o.HolidayDays != 2 || o.PTODaysNeeded != 8 {
		t.Errorf("counts = (%d, %d, %d, %d), want (14, 4, 2, 8)", o.TotalDays, o.WeekendDays, o.HolidayDays, o.PTODaysNeeded)
	}
	if o.Efficiency != 14.0/8.0 {
		t.Errorf("Efficiency = %v, want %v", o.Efficiency, 14.0/8.0)
	}

	weekend := buildOpportunity(dateutil.Date(2025, time.April, 19), dateutil.Date(2025, time.April, 20), off, StrategyBridge)
	if weekend.PTODaysNeeded != 0 || weekend.Efficiency != 0 {
		t.Errorf("weekend-only range = (pto %d, eff %v), want (0, 0)", weekend.PTODaysNeeded, weekend.Efficiency)
	}
}

func TestDeduplicate(t *testing.T) {
	mk := func(start, end string, pto int) Opportunity {
		s, _ := dateutil.ParseDate(start)
		e, _ := dateutil.ParseDate(end)
		return Opportunity{StartDate: s, EndDate: e, PTODaysNeeded: pto, Efficiency: float64(pto)}
	}
	in := []Opportunity{
		mk("2025-01-03", "2025-01-06", 2),
		mk("2025-07-04", "2025-07-07", 1),
		mk("2025-01-03", "2025-01-06", 5),
		mk("2025-03-01", "2025-03-02", 0),
	}

	got := Deduplicate(in)
	if len(got) != 2 {
		t.Fatalf("len(Deduplicate) = %d, want 2", len(got))
	}
	if got[0].PTODaysNeeded != 2 {
		t.Errorf("first occurrence should win, got PTODaysNeeded %d", got[0].PTODaysNeeded)
	}
	if again := Deduplicate(got); !reflect.DeepEqual(again, got) {
		t.Errorf("Deduplicate is not idempotent: %v != %v", again, got)
	}
}

func TestSelect(t *testing.T) {
	mk := func(pto int, eff float64, dates ...string) Opportunity {
		o := Opportunity{PTODaysNeeded: pto, Efficiency: eff}
		for _, d := range dates {
			day, _ := dateutil.ParseDate(d)
			o.PTODates = append(o.PTODates, day)
		}
		return o
	}

	tests := []struct {
		name          string
		opps          []Opportunity
		budget        int
		mutate        func(*Policy)
		wantAccepted  []float64
		wantRemaining int
	}{
		{
			name:          "ranks by efficiency",
			opps:          []Opportunity{mk(1, 1.5), mk(1, 3), mk(1, 2)},
			budget:        10,
			wantAccepted:  []float64{3, 2, 1.5},
			wantRemaining: 7,
		},
		{
			name:          "below minimum efficiency",
			opps:          []Opportunity{mk(1, 1.19), mk(1, 1.2)},
			budget:        10,
			wantAccepted:  []float64{1.2},
			wantRemaining: 9,
		},
		{
			name:          "skips what the budget cannot cover",
			opps:          []Opportunity{mk(8, 4), mk(3, 2)},
			budget:        6,
			wantAccepted:  []float64{2},
			wantRemaining: 3,
		},
		{
			name:          "stops at remaining threshold",
			opps:          []Opportunity{mk(3, 4), mk(1, 3)},
			budget:        5,
			wantAccepted:  []float64{4},
			wantRemaining: 2,
		},
		{
			name:          "small budget considers only the top candidate",
			opps:          []Opportunity{mk(3, 4), mk(1, 3)},
			budget:        2,
			wantAccepted:  []float64{},
			wantRemaining: 2,
		},
		{
			name: "block cap",
			opps: []Opportunity{
				mk(1, 2), mk(1, 2), mk(1, 2), mk(1, 2), mk(1, 2), mk(1, 2), mk(1, 2),
			},
			budget:        20,
			wantAccepted:  []float64{2, 2, 2, 2, 2, 2},
			wantRemaining: 14,
		},
		{
			name:          "overlapping PTO accepted by default",
			opps:          []Opportunity{mk(2, 3, "2025-01-03", "2025-01-06"), mk(2, 2, "2025-01-06", "2025-01-07")},
			budget:        10,
			wantAccepted:  []float64{3, 2},
			wantRemaining: 6,
		},
		{
			name:          "overlap guard",
			opps:          []Opportunity{mk(2, 3, "2025-01-03", "2025-01-06"), mk(2, 2, "2025-01-06", "2025-01-07")},
			budget:        10,
			mutate:        func(p *Policy) { p.RejectOverlappingPTO = true },
			wantAccepted:  []float64{3},
			wantRemaining: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			if tt.mutate != nil {
				tt.mutate(&policy)
			}
			accepted, remaining := Select(tt.opps, tt.budget, policy)

			got := make([]float64, 0, len(accepted))
			for _, o := range accepted {
				got = append(got, o.Efficiency)
			}
			if !reflect.DeepEqual(got, tt.wantAccepted) {
				t.Errorf("accepted efficiencies = %v, want %v", got, tt.wantAccepted)
			}
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestRankIsStable(t *testing.T) {
	in := []Opportunity{
		{Strategy: "a", Efficiency: 2},
		{Strategy: "b", Efficiency: 4},
		{Strategy: "c", Efficiency: 2},
		{Strategy: "d", Efficiency: 2},
	}
	got := Rank(in)
	want := []Strategy{"b", "a", "c", "d"}
	for i, o := range got {
		if o.Strategy != want[i] {
			t.Errorf("Rank()[%d] = %s, want %s", i, o.Strategy, want[i])
		}
	}
	if in[0].Strategy != "a" || in[1].Strategy != "b" {
		t.Error("Rank modified its input")
	}
}

func TestEfficiencyPercent(t *testing.T) {
	tests := []struct {
		daysOff, ptoUsed int
		want             int
	}{
		{8, 3, 267},
		{9, 8, 113},
		{4, 1, 400},
		{10, 0, 0},
		{0, 0, 0},
		{7, 5, 140},
	}
	for _, tt := range tests {
		if got := EfficiencyPercent(tt.daysOff, tt.ptoUsed); got != tt.want {
			t.Errorf("EfficiencyPercent(%d, %d) = %d, want %d", tt.daysOff, tt.ptoUsed, got, tt.want)
		}
	}
}

func TestOptimizeInvariants(t *testing.T) {
	table := holidays.DefaultFallbackTable()
	for _, country := range []string{"US", "GB", "DE", "JP", "IN"} {
		for _, style := range Styles {
			for _, budget := range []int{0, 1, 3, 5, 10, 15, 25, 40} {
				prefs := Preferences{TotalPTODays: budget, Country: country, VacationStyle: style}
				hs := table.Lookup(country, 2025)
				res := Optimize(hs, prefs, 2025)

				if res.PTOUsed > budget || res.PTOUsed < 0 {
					t.Errorf("%s/%s/%d: PTOUsed = %d, outside [0, %d]", country, style, budget, res.PTOUsed, budget)
				}
				if len(res.VacationBlocks) > DefaultPolicy().MaxBlocks {
					t.Errorf("%s/%s/%d: %d blocks, want at most %d", country, style, budget, len(res.VacationBlocks), DefaultPolicy().MaxBlocks)
				}

				ptoSum, daysOff := 0, 0
				for _, b := range res.VacationBlocks {
					if b.TotalDays != b.PTODays+b.WeekendDays+b.HolidayDays {
						t.Errorf("%s/%s/%d: block %+v does not add up", country, style, budget, b)
					}
					if float64(b.TotalDays)/float64(b.PTODays) < DefaultPolicy().MinEfficiency {
						t.Errorf("%s/%s/%d: block %+v below minimum efficiency", country, style, budget, b)
					}
					ptoSum += b.PTODays
					daysOff += b.TotalDays
				}
				if ptoSum != res.PTOUsed || len(res.SuggestedPTO) != res.PTOUsed {
					t.Errorf("%s/%s/%d: PTO sum %d, suggested %d, used %d", country, style, budget, ptoSum, len(res.SuggestedPTO), res.PTOUsed)
				}
				if daysOff != res.TotalDaysOff {
					t.Errorf("%s/%s/%d: TotalDaysOff = %d, want %d", country, style, budget, res.TotalDaysOff, daysOff)
				}
				if res.PTOUsed == 0 && res.Efficiency != 0 {
					t.Errorf("%s/%s/%d: Efficiency = %d with no PTO used", country, style, budget, res.Efficiency)
				}
				for _, d := range res.SuggestedPTO {
					if d.Type != PTODaySuggested {
						t.Errorf("%s/%s/%d: PTO day type %s", country, style, budget, d.Type)
					}
				}

				if again := Optimize(hs, prefs, 2025); !reflect.DeepEqual(res, again) {
					t.Errorf("%s/%s/%d: result is not deterministic", country, style, budget)
				}
			}
		}
	}
}

func TestOpportunityDayAccounting(t *testing.T) {
	table := holidays.DefaultFallbackTable()
	mondayWeeks := DefaultPolicy()
	mondayWeeks.WeekStart = time.Monday

	policies := map[string]Policy{"sunday": DefaultPolicy(), "monday": mondayWeeks}
	companySets := [][]string{nil, {"2025-12-24", "2025-12-29", "2025-07-03"}}

	checked := 0
	for name, policy := range policies {
		o := New(policy, nil)
		for _, country := range []string{"US", "CA", "GB", "DE", "FR", "AU", "JP", "IN"} {
			hs := table.Lookup(country, 2025)
			for _, style := range Styles {
				for _, company := range companySets {
					prefs := Preferences{TotalPTODays: 15, Country: country, VacationStyle: style, CompanyHolidays: company}
					for _, op := range o.Opportunities(hs, prefs, 2025) {
						checked++
						label := name + "/" + country + "/" + string(style) + " " + op.String()

						if op.StartDate.After(op.EndDate) {
							t.Errorf("%s: start after end", label)
						}
						if got := dateutil.DaysInclusive(op.StartDate, op.EndDate); op.TotalDays != got {
							t.Errorf("%s: TotalDays = %d, want %d", label, op.TotalDays, got)
						}
						if sum := op.PTODaysNeeded + op.WeekendDays + op.HolidayDays; op.TotalDays != sum {
							t.Errorf("%s: TotalDays = %d, want %d (pto+weekend+holiday)", label, op.TotalDays, sum)
						}
						if len(op.PTODates) != op.PTODaysNeeded {
							t.Errorf("%s: len(PTODates) = %d, want %d", label, len(op.PTODates), op.PTODaysNeeded)
						}
						for i, d := range op.PTODates {
							if !dateutil.IsWeekday(d) || d.Before(op.StartDate) || d.After(op.EndDate) {
								t.Errorf("%s: PTO date %s is not a weekday inside the range", label, dateutil.FormatDate(d))
							}
							if i > 0 && !d.After(op.PTODates[i-1]) {
								t.Errorf("%s: PTO dates out of order at %s", label, dateutil.FormatDate(d))
							}
						}
					}
				}
			}
		}
	}
	if checked == 0 {
		t.Fatal("no opportunities generated")
	}
}

func TestOptimizeSkipsBadHolidayDates(t *testing.T) {
	hs := append(holidayList("2025-07-04"), holidays.Holiday{Date: "not-a-date", Name: "Broken"})
	prefs := Preferences{TotalPTODays: 5, Country: "US", VacationStyle: StyleBalanced}

	want := Optimize(holidayList("2025-07-04"), prefs, 2025)
	if got := Optimize(hs, prefs, 2025); !reflect.DeepEqual(got, want) {
		t.Errorf("Optimize with bad date = %+v, want %+v", got, want)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("DefaultPolicy().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"negative efficiency", func(p *Policy) { p.MinEfficiency = -1 }},
		{"zero blocks", func(p *Policy) { p.MaxBlocks = 0 }},
		{"zero scan", func(p *Policy) { p.BridgeScanDays = 0 }},
		{"zero spacing", func(p *Policy) { p.LongWeekendSpacing = 0 }},
		{"bad start day", func(p *Policy) { p.WeekLongStartDay = 31 }},
		{"bad week start", func(p *Policy) { p.WeekStart = time.Weekday(9) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
