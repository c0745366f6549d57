package optimizer

import (
	"sort"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// Rank orders opportunities by efficiency, highest first. Equal efficiencies
// keep their generation order.
func Rank(opportunities []Opportunity) []Opportunity {
	ranked := make([]Opportunity, len(opportunities))
	copy(ranked, opportunities)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Efficiency > ranked[j].Efficiency
	})
	return ranked
}

// Select greedily accepts ranked opportunities against the PTO budget and
// returns the accepted ones together with the unspent budget.
func Select(opportunities []Opportunity, budget int, policy Policy) ([]Opportunity, int) {
	remaining := budget
	accepted := []Opportunity{}
	spent := make(map[string]struct{})

	for _, o := range Rank(opportunities) {
		if acceptable(o, remaining, policy) && !(policy.RejectOverlappingPTO && overlaps(o, spent)) {
			accepted = append(accepted, o)
			remaining -= o.PTODaysNeeded
			for _, d := range o.PTODates {
				spent[dateutil.FormatDate(d)] = struct{}{}
			}
		}
		if remaining <= policy.StopRemainingPTO || len(accepted) >= policy.MaxBlocks {
			break
		}
	}
	return accepted, remaining
}

func acceptable(o Opportunity, remaining int, policy Policy) bool {
	return o.PTODaysNeeded > 0 &&
		remaining >= o.PTODaysNeeded &&
		o.Efficiency >= policy.MinEfficiency
}

func overlaps(o Opportunity, spent map[string]struct{}) bool {
	for _, d := range o.PTODates {
		if _, ok := spent[dateutil.FormatDate(d)]; ok {
			return true
		}
	}
	return false
}
