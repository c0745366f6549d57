package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/username/holiday-optimizer/internal/export"
	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// planFlags are the inputs shared by plan, export and compare
type planFlags struct {
	country string
	year    int
	pto     int
	style   string
	company []string
	pinned  []string
}

func (f *planFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.country, "country", "", "ISO 3166-1 alpha-2 country code (default from config)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Planning year (default: current year)")
	cmd.Flags().IntVar(&f.pto, "pto", 0, "Total PTO days available")
	cmd.Flags().StringVar(&f.style, "style", "", "Vacation style: long-weekends, week-long, balanced, custom (default from config)")
	cmd.Flags().StringSliceVar(&f.company, "company-holiday", nil, "Company holiday date YYYY-MM-DD (repeatable)")
	cmd.Flags().StringSliceVar(&f.pinned, "pinned", nil, "Pinned PTO date YYYY-MM-DD (repeatable)")
}

func (f *planFlags) preferences() optimizer.Preferences {
	country := f.country
	if country == "" {
		country = cfg.Planner.DefaultCountry
	}
	style := f.style
	if style == "" {
		style = cfg.Planner.DefaultStyle
	}
	return optimizer.Preferences{
		TotalPTODays:    f.pto,
		Country:         country,
		CompanyHolidays: f.company,
		VacationStyle:   optimizer.VacationStyle(style),
		PinnedDates:     f.pinned,
	}
}

func (f *planFlags) planYear() int {
	if f.year == 0 {
		return dateutil.Today().Year()
	}
	return f.year
}

func planCmd() *cobra.Command {
	var flags planFlags
	var format string
	var save bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Suggest PTO days for a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.planner.Plan(cmd.Context(), flags.preferences(), flags.planYear())
			if err != nil {
				return err
			}

			if save {
				state := planner.NewStateManager(cfg.Planner.StateFile, logger)
				if err := state.Load(); err != nil {
					return err
				}
				if err := state.Record(plan); err != nil {
					return err
				}
			}

			return writeFormatted(out, format, plan, func(w io.Writer) error {
				return planner.RenderText(w, plan)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&save, "save", false, "Save the plan to the state file for later comparison")
	return cmd
}

func holidaysCmd() *cobra.Command {
	var country string
	var year int
	var format string

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays for a country and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if country == "" {
				country = cfg.Planner.DefaultCountry
			}
			if year == 0 {
				year = dateutil.Today().Year()
			}

			hs, err := a.planner.Holidays(cmd.Context(), country, year)
			if err != nil {
				return err
			}

			return writeFormatted(out, format, hs, func(w io.Writer) error {
				if len(hs) == 0 {
					_, err := fmt.Fprintf(w, "No holidays found for %s %d\n", strings.ToUpper(country), year)
					return err
				}
				for _, h := range hs {
					name := h.Name
					if h.LocalName != "" && h.LocalName != h.Name {
						name = fmt.Sprintf("%s (%s)", h.Name, h.LocalName)
					}
					if _, err := fmt.Fprintf(w, "%s  %s\n", h.Date, name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "ISO 3166-1 alpha-2 country code (default from config)")
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current year)")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json, yaml")
	return cmd
}

func exportCmd() *cobra.Command {
	var flags planFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a plan as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.planner.Plan(cmd.Context(), flags.preferences(), flags.planYear())
			if err != nil {
				return err
			}

			opts := export.Options{
				Name:            fmt.Sprintf("PTO plan %s %d", plan.Preferences.Country, plan.Year),
				Holidays:        plan.Holidays,
				CompanyHolidays: plan.Preferences.CompanyHolidays,
				Stamp:           plan.GeneratedAt,
			}

			if output == "" || output == "-" {
				return export.Write(out, plan.Result, opts)
			}

			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output dir: %w", err)
				}
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}

			if err := export.Write(f, plan.Result, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close output file: %w", err)
			}

			logger.Info("Calendar exported",
				zap.String("file", output),
				zap.Int("pto_days", len(plan.Result.SuggestedPTO)),
				zap.Int("blocks", len(plan.Result.VacationBlocks)))
			fmt.Fprintf(out, "Exported %d PTO days in %d blocks to %s\n",
				len(plan.Result.SuggestedPTO), len(plan.Result.VacationBlocks), output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output .ics file (- for stdout)")
	return cmd
}

func compareCmd() *cobra.Command {
	var flags planFlags
	var against string
	var saved bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Diff the plan for one vacation style against another style or the saved plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp(cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			prefs := flags.preferences()
			year := flags.planYear()

			var diff string
			if saved {
				diff, err = diffAgainstSaved(cmd.Context(), a, prefs, year)
			} else {
				if against == "" {
					return fmt.Errorf("--against or --saved is required")
				}
				var cmp *planner.Comparison
				cmp, err = a.planner.Compare(cmd.Context(), prefs, year, prefs.VacationStyle, optimizer.VacationStyle(against))
				if cmp != nil {
					diff = cmp.Diff
				}
			}
			if err != nil {
				return err
			}

			if diff == "" {
				_, err := fmt.Fprintln(out, "Plans are identical")
				return err
			}
			_, err = io.WriteString(out, diff)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&against, "against", "", "Vacation style to compare with")
	cmd.Flags().BoolVar(&saved, "saved", false, "Compare with the plan saved by 'plan --save'")
	return cmd
}

func diffAgainstSaved(ctx context.Context, a *app, prefs optimizer.Preferences, year int) (string, error) {
	state := planner.NewStateManager(cfg.Planner.StateFile, logger)
	if err := state.Load(); err != nil {
		return "", err
	}

	current, err := a.planner.Plan(ctx, prefs, year)
	if err != nil {
		return "", err
	}
	previous, ok := state.Last(current.Preferences.Country, year, current.Preferences.VacationStyle)
	if !ok {
		return "", fmt.Errorf("no saved plan for %s %d %s", current.Preferences.Country, year, current.Preferences.VacationStyle)
	}
	return planner.DiffPlans(previous, current)
}

func writeFormatted(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch strings.ToLower(format) {
	case "", formatText:
		return text(w)
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
