package optimizer

import (
	"fmt"
	"time"
)

// Policy holds the heuristic's tunables. DefaultPolicy reproduces the
// reference behavior; the thresholds are part of the observable output.
type Policy struct {
	// MinEfficiency is the floor an opportunity's days-off/PTO ratio must reach
	MinEfficiency float64
	// MaxBlocks caps the number of accepted vacation blocks
	MaxBlocks int
	// StopRemainingPTO stops selection once the remaining budget is at or below it
	StopRemainingPTO int
	// MaxLongWeekendPTO is the PTO ceiling for standalone long weekends
	MaxLongWeekendPTO int
	// BridgeScanDays is how far ahead of a holiday bridging looks for another day off
	BridgeScanDays int
	// MondayExtensionOffset is how many days before a Monday holiday the
	// weekend extension starts (4 reaches the Thursday before the weekend)
	MondayExtensionOffset int
	// FridayExtensionOffset is how many days after a Friday holiday the extension ends
	FridayExtensionOffset int
	// StandaloneThreshold triggers standalone generation when fewer opportunities exist
	StandaloneThreshold int
	// LongWeekendSpacing keeps every Nth Friday of the year
	LongWeekendSpacing int
	// MaxLongWeekends and BalancedLongWeekends cap the surviving Fridays per style
	MaxLongWeekends      int
	BalancedLongWeekends int
	// WeekLongDays and WeekLongStartDay shape standalone week-long breaks
	WeekLongDays     int
	WeekLongStartDay int
	// WeekStart is the first day of the calendar week used by bridging
	WeekStart time.Weekday
	// RejectOverlappingPTO skips opportunities whose PTO dates were already accepted
	RejectOverlappingPTO bool
}

var (
	weekLongMonths = []time.Month{time.March, time.June, time.September, time.November}
	balancedMonths = []time.Month{time.June, time.September}
)

// DefaultPolicy returns the reference thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinEfficiency:         1.2,
		MaxBlocks:             6,
		StopRemainingPTO:      2,
		MaxLongWeekendPTO:     2,
		BridgeScanDays:        7,
		MondayExtensionOffset: 4,
		FridayExtensionOffset: 3,
		StandaloneThreshold:   3,
		LongWeekendSpacing:    4,
		MaxLongWeekends:       8,
		BalancedLongWeekends:  4,
		WeekLongDays:          7,
		WeekLongStartDay:      15,
		WeekStart:             time.Sunday,
	}
}

// Validate checks the policy for values the heuristic cannot work with
func (p Policy) Validate() error {
	if p.MinEfficiency < 0 {
		return fmt.Errorf("min efficiency must not be negative")
	}
	if p.MaxBlocks <= 0 {
		return fmt.Errorf("max blocks must be positive")
	}
	if p.StopRemainingPTO < 0 {
		return fmt.Errorf("stop remaining PTO must not be negative")
	}
	if p.MaxLongWeekendPTO <= 0 {
		return fmt.Errorf("max long weekend PTO must be positive")
	}
	if p.BridgeScanDays <= 0 {
		return fmt.Errorf("bridge scan days must be positive")
	}
	if p.MondayExtensionOffset <= 0 || p.FridayExtensionOffset <= 0 {
		return fmt.Errorf("weekend extension offsets must be positive")
	}
	if p.LongWeekendSpacing <= 0 {
		return fmt.Errorf("long weekend spacing must be positive")
	}
	if p.WeekLongDays <= 0 {
		return fmt.Errorf("week-long days must be positive")
	}
	if p.WeekLongStartDay < 1 || p.WeekLongStartDay > 28 {
		return fmt.Errorf("week-long start day must be between 1 and 28")
	}
	if p.WeekStart < time.Sunday || p.WeekStart > time.Saturday {
		return fmt.Errorf("invalid week start %d", p.WeekStart)
	}
	return nil
}
