// Package export renders plans as iCalendar documents and reads them back.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const (
	ProductID = "-//Holiday Optimizer//EN"
	uidDomain = "holiday-optimizer.com"

	icsDateLayout = "20060102"

	categoryPTO     = "PTO"
	categoryBlock   = "VACATION"
	categoryHoliday = "HOLIDAY"
	categoryCompany = "COMPANY-HOLIDAY"
)

// Options controls what goes into an exported calendar
type Options struct {
	// Name is written as X-WR-CALNAME when set
	Name            string
	Holidays        []holidays.Holiday
	CompanyHolidays []string
	// Stamp is used for DTSTAMP; zero means now
	Stamp time.Time
}

// Generate builds a calendar with one all-day event per PTO day and vacation
// block, followed by the public and company holidays in opts.
// DTEND is exclusive, one day after the last day of the event.
func Generate(res optimizer.Result, opts Options) (*ics.Calendar, error) {
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	seen := make(map[string]struct{})
	for _, d := range res.SuggestedPTO {
		if _, ok := seen[d.Date]; ok {
			continue
		}
		seen[d.Date] = struct{}{}

		day, err := dateutil.ParseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("PTO day: %w", err)
		}
		addAllDay(cal, uid("pto", d.Date), day, day, stamp, "PTO Day", d.Reason, categoryPTO)
	}

	for i, b := range res.VacationBlocks {
		start, err := dateutil.ParseDate(b.StartDate)
		if err != nil {
			return nil, fmt.Errorf("vacation block %d: %w", i+1, err)
		}
		end, err := dateutil.ParseDate(b.EndDate)
		if err != nil {
			return nil, fmt.Errorf("vacation block %d: %w", i+1, err)
		}
		addAllDay(cal, uid("vacation-block", fmt.Sprint(i)), start, end, stamp,
			fmt.Sprintf("Vacation Block %d", i+1),
			fmt.Sprintf("%d days off (%d PTO days)", b.TotalDays, b.PTODays),
			categoryBlock)
	}

	days, err := holidayDays(opts.Holidays)
	if err != nil {
		return nil, err
	}
	for _, d := range days {
		addAllDay(cal, uid("holiday", dateutil.FormatDate(d.day)), d.day, d.day, stamp,
			strings.Join(d.names, " / "), strings.Join(d.localNames, " / "), categoryHoliday)
	}

	companySeen := make(map[string]struct{})
	for _, c := range opts.CompanyHolidays {
		day, err := dateutil.ParseDate(c)
		if err != nil {
			return nil, fmt.Errorf("company holiday: %w", err)
		}
		date := dateutil.FormatDate(day)
		if _, ok := companySeen[date]; ok {
			continue
		}
		companySeen[date] = struct{}{}
		addAllDay(cal, uid("company", date), day, day, stamp, "Company Holiday", "", categoryCompany)
	}

	return cal, nil
}

// Write generates the calendar and writes it to w
func Write(w io.Writer, res optimizer.Result, opts Options) error {
	cal, err := Generate(res, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

type holidayDay struct {
	day        time.Time
	names      []string
	localNames []string
}

// holidayDays groups holidays sharing a date so each date yields one event
// and one UID. Dates keep their first-seen order.
func holidayDays(hs []holidays.Holiday) ([]*holidayDay, error) {
	var days []*holidayDay
	byDate := make(map[string]*holidayDay)
	for _, h := range hs {
		day, err := dateutil.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		date := dateutil.FormatDate(day)
		d, ok := byDate[date]
		if !ok {
			d = &holidayDay{day: day}
			byDate[date] = d
			days = append(days, d)
		}
		d.names = appendUnique(d.names, h.Name)
		if h.LocalName != "" && h.LocalName != h.Name {
			d.localNames = appendUnique(d.localNames, h.LocalName)
		}
	}
	return days, nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func addAllDay(cal *ics.Calendar, id string, first, last, stamp time.Time, summary, description, category string) {
	event := cal.AddEvent(id)
	event.SetDtStampTime(stamp)
	event.SetAllDayStartAt(first)
	event.SetAllDayEndAt(last.AddDate(0, 0, 1))
	event.SetSummary(summary)
	if description != "" {
		event.SetDescription(description)
	}
	event.AddProperty(ics.ComponentPropertyCategories, category)
	event.AddProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
}

func uid(kind, id string) string {
	return fmt.Sprintf("%s-%s@%s", kind, id, uidDomain)
}

// Span is an inclusive all-day date range recovered from an event
type Span struct {
	UID     string `json:"uid"`
	Summary string `json:"summary"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Document is the content of a parsed calendar, grouped by event kind
type Document struct {
	PTODays         []Span `json:"ptoDays"`
	VacationBlocks  []Span `json:"vacationBlocks"`
	Holidays        []Span `json:"holidays"`
	CompanyHolidays []Span `json:"companyHolidays"`
	Other           []Span `json:"other,omitempty"`
}

// Parse reads a calendar and recovers the all-day spans of its events
func Parse(r io.Reader) (*Document, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	doc := &Document{}
	for _, event := range cal.Events() {
		span, err := eventSpan(event)
		if err != nil {
			return nil, err
		}
		switch {
		case strings.HasPrefix(span.UID, "pto-"):
			doc.PTODays = append(doc.PTODays, span)
		case strings.HasPrefix(span.UID, "vacation-block-"):
			doc.VacationBlocks = append(doc.VacationBlocks, span)
		case strings.HasPrefix(span.UID, "holiday-"):
			doc.Holidays = append(doc.Holidays, span)
		case strings.HasPrefix(span.UID, "company-"):
			doc.CompanyHolidays = append(doc.CompanyHolidays, span)
		default:
			doc.Other = append(doc.Other, span)
		}
	}
	return doc, nil
}

func eventSpan(event *ics.VEvent) (Span, error) {
	span := Span{UID: event.Id()}
	if p := event.GetProperty(ics.ComponentPropertySummary); p != nil {
		span.Summary = p.Value
	}

	start, err := propertyDate(event, ics.ComponentPropertyDtStart)
	if err != nil {
		return Span{}, fmt.Errorf("event %s: %w", span.UID, err)
	}
	end := start
	if event.GetProperty(ics.ComponentPropertyDtEnd) != nil {
		exclusive, err := propertyDate(event, ics.ComponentPropertyDtEnd)
		if err != nil {
			return Span{}, fmt.Errorf("event %s: %w", span.UID, err)
		}
		if exclusive.After(start) {
			end = exclusive.AddDate(0, 0, -1)
		}
	}

	span.Start = dateutil.FormatDate(start)
	span.End = dateutil.FormatDate(end)
	return span, nil
}

func propertyDate(event *ics.VEvent, prop ics.ComponentProperty) (time.Time, error) {
	p := event.GetProperty(prop)
	if p == nil {
		return time.Time{}, fmt.Errorf("missing %s", prop)
	}
	value := p.Value
	if len(value) > len(icsDateLayout) {
		value = value[:len(icsDateLayout)]
	}
	t, err := time.Parse(icsDateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", prop, p.Value, err)
	}
	return dateutil.Date(t.Year(), t.Month(), t.Day()), nil
}

// Dates returns every calendar date covered by the document's PTO and
// vacation block events, sorted and without duplicates
func (d *Document) Dates() []string {
	set := make(map[string]struct{})
	for _, group := range [][]Span{d.PTODays, d.VacationBlocks} {
		for _, s := range group {
			start, _ := dateutil.ParseDate(s.Start)
			end, _ := dateutil.ParseDate(s.End)
			for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
				set[dateutil.FormatDate(day)] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
