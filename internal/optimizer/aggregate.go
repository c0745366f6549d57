package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

var hundred = decimal.NewFromInt(100)

// Aggregate turns the accepted opportunities into a Result. PTO days are
// emitted in block order, then chronologically within a block.
func Aggregate(accepted []Opportunity, totalPTO, remaining int) Result {
	res := Result{
		SuggestedPTO:   []PTODay{},
		VacationBlocks: make([]VacationBlock, 0, len(accepted)),
	}

	for _, o := range accepted {
		reason := fmt.Sprintf("Part of %d-day vacation block", o.TotalDays)
		for _, d := range o.PTODates {
			res.SuggestedPTO = append(res.SuggestedPTO, PTODay{
				Date:   dateutil.FormatDate(d),
				Type:   PTODaySuggested,
				Reason: reason,
			})
		}
		res.VacationBlocks = append(res.VacationBlocks, VacationBlock{
			StartDate:   dateutil.FormatDate(o.StartDate),
			EndDate:     dateutil.FormatDate(o.EndDate),
			TotalDays:   o.TotalDays,
			PTODays:     o.PTODaysNeeded,
			WeekendDays: o.WeekendDays,
			HolidayDays: o.HolidayDays,
		})
		res.TotalDaysOff += o.TotalDays
	}

	res.PTOUsed = totalPTO - remaining
	res.Efficiency = EfficiencyPercent(res.TotalDaysOff, res.PTOUsed)
	return res
}

// EfficiencyPercent returns round(daysOff / ptoUsed * 100), halves away from
// zero, or 0 when no PTO was used.
func EfficiencyPercent(daysOff, ptoUsed int) int {
	if ptoUsed <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(daysOff)).Mul(hundred).Div(decimal.NewFromInt(int64(ptoUsed)))
	return int(ratio.Round(0).IntPart())
}
