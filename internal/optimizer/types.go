package optimizer

import (
	"fmt"
	"time"

	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// VacationStyle selects the standalone-vacation strategy
type VacationStyle string

const (
	StyleLongWeekends VacationStyle = "long-weekends"
	StyleWeekLong     VacationStyle = "week-long"
	StyleBalanced     VacationStyle = "balanced"
	// StyleCustom has no generator of its own and is planned as StyleBalanced
	StyleCustom VacationStyle = "custom"
)

// Styles lists the accepted vacation styles
var Styles = []VacationStyle{StyleLongWeekends, StyleWeekLong, StyleBalanced, StyleCustom}

// Preferences are the user inputs for a single run
type Preferences struct {
	TotalPTODays    int           `json:"totalPTODays" yaml:"totalPTODays" validate:"gte=0,lte=366"`
	Country         string        `json:"country" yaml:"country" validate:"required,alpha,len=2"`
	CompanyHolidays []string      `json:"companyHolidays" yaml:"companyHolidays" validate:"dive,datetime=2006-01-02"`
	VacationStyle   VacationStyle `json:"vacationStyle" yaml:"vacationStyle" validate:"omitempty,oneof=long-weekends week-long balanced custom"`
	PinnedDates     []string      `json:"pinnedDates" yaml:"pinnedDates" validate:"dive,datetime=2006-01-02"`
}

// Strategy names the generator that produced an opportunity
type Strategy string

const (
	StrategyWeekendExtension Strategy = "weekend-extension"
	StrategyBridge           Strategy = "bridge"
	StrategyStandalone       Strategy = "standalone"
)

// Opportunity is a candidate date range evaluated for days off versus PTO spent.
// TotalDays == PTODaysNeeded + WeekendDays + HolidayDays.
type Opportunity struct {
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	PTODaysNeeded int
	PTODates      []time.Time
	WeekendDays   int
	HolidayDays   int
	Efficiency    float64
	Strategy      Strategy
}

// Key identifies an opportunity by its date range
func (o Opportunity) Key() string {
	return dateutil.FormatDate(o.StartDate) + "-" + dateutil.FormatDate(o.EndDate)
}

func (o Opportunity) String() string {
	return fmt.Sprintf("%s %s..%s (%d days, %d PTO, %.2f)",
		o.Strategy, dateutil.FormatDate(o.StartDate), dateutil.FormatDate(o.EndDate),
		o.TotalDays, o.PTODaysNeeded, o.Efficiency)
}

// VacationBlock is one selected opportunity in output form
type VacationBlock struct {
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	TotalDays   int    `json:"totalDays" yaml:"totalDays"`
	PTODays     int    `json:"ptoDays" yaml:"ptoDays"`
	WeekendDays int    `json:"weekendDays" yaml:"weekendDays"`
	HolidayDays int    `json:"holidayDays" yaml:"holidayDays"`
}

// PTODayType classifies a PTO day in the result
type PTODayType string

const (
	PTODaySuggested PTODayType = "suggested"
	PTODayPinned    PTODayType = "pinned"
	PTODayCompany   PTODayType = "company"
)

// PTODay is a single date the plan spends PTO on
type PTODay struct {
	Date   string     `json:"date" yaml:"date"`
	Type   PTODayType `json:"type" yaml:"type"`
	Reason string     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Result is the outcome of a run
type Result struct {
	SuggestedPTO   []PTODay        `json:"suggestedPTO" yaml:"suggestedPTO"`
	VacationBlocks []VacationBlock `json:"vacationBlocks" yaml:"vacationBlocks"`
	TotalDaysOff   int             `json:"totalDaysOff" yaml:"totalDaysOff"`
	PTOUsed        int             `json:"ptoUsed" yaml:"ptoUsed"`
	// Efficiency is the whole-plan days-off per PTO day, as a rounded percentage
	Efficiency int `json:"efficiency" yaml:"efficiency"`
}
