package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/username/holiday-optimizer/internal/optimizer"
)

// Comparison holds two plans for the same inputs and a unified diff of their summaries
type Comparison struct {
	Left  *Plan  `json:"left" yaml:"left"`
	Right *Plan  `json:"right" yaml:"right"`
	Diff  string `json:"diff" yaml:"diff"`
}

// Compare plans the same preferences under two vacation styles
func (m *Manager) Compare(ctx context.Context, prefs optimizer.Preferences, year int, left, right optimizer.VacationStyle) (*Comparison, error) {
	prefs.VacationStyle = left
	a, err := m.Plan(ctx, prefs, year)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", left, err)
	}

	prefs.VacationStyle = right
	b, err := m.Plan(ctx, prefs, year)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", right, err)
	}

	diff, err := DiffPlans(a, b)
	if err != nil {
		return nil, err
	}
	return &Comparison{Left: a, Right: b, Diff: diff}, nil
}

// DiffPlans returns a unified diff between two plans, empty when they agree
func DiffPlans(a, b *Plan) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        withNewlines(renderLines(a)),
		B:        withNewlines(renderLines(b)),
		FromFile: planLabel(a),
		ToFile:   planLabel(b),
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff plans: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}

func planLabel(p *Plan) string {
	return fmt.Sprintf("%s-%d-%s", p.Preferences.Country, p.Year, p.Preferences.VacationStyle)
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
