package optimizer

// Deduplicate keeps the first opportunity per date range and drops those
// that need no PTO. A later duplicate never replaces an earlier one.
func Deduplicate(opportunities []Opportunity) []Opportunity {
	seen := make(map[string]struct{}, len(opportunities))
	out := make([]Opportunity, 0, len(opportunities))
	for _, o := range opportunities {
		key := o.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if o.PTODaysNeeded > 0 {
			out = append(out, o)
		}
	}
	return out
}
