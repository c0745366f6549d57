package planner

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderText writes a human-readable plan summary
func RenderText(w io.Writer, p *Plan) error {
	res := p.Result
	fmt.Fprintf(w, "Holiday plan for %s %d (%s, %d PTO days)\n",
		p.Preferences.Country, p.Year, p.Preferences.VacationStyle, p.Preferences.TotalPTODays)
	fmt.Fprintf(w, "PTO used: %d  Days off: %d  Efficiency: %d%%\n", res.PTOUsed, res.TotalDaysOff, res.Efficiency)

	if len(res.VacationBlocks) == 0 {
		_, err := fmt.Fprintln(w, "\nNo vacation blocks found.")
		return err
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTART\tEND\tDAYS\tPTO\tWEEKEND\tHOLIDAY")
	for i, b := range res.VacationBlocks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\n",
			i+1, b.StartDate, b.EndDate, b.TotalDays, b.PTODays, b.WeekendDays, b.HolidayDays)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	dates := make([]string, 0, len(res.SuggestedPTO))
	for _, d := range res.SuggestedPTO {
		dates = append(dates, d.Date)
	}
	_, err := fmt.Fprintf(w, "\nSuggested PTO: %s\n", strings.Join(dates, ", "))
	return err
}

// renderLines is the line-oriented form used for diffs
func renderLines(p *Plan) []string {
	res := p.Result
	lines := []string{
		fmt.Sprintf("style: %s", p.Preferences.VacationStyle),
		fmt.Sprintf("pto used: %d", res.PTOUsed),
		fmt.Sprintf("days off: %d", res.TotalDaysOff),
		fmt.Sprintf("efficiency: %d%%", res.Efficiency),
	}
	for _, b := range res.VacationBlocks {
		lines = append(lines, fmt.Sprintf("block %s..%s days=%d pto=%d", b.StartDate, b.EndDate, b.TotalDays, b.PTODays))
	}
	for _, d := range res.SuggestedPTO {
		lines = append(lines, fmt.Sprintf("pto %s", d.Date))
	}
	return lines
}
