package planner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/username/holiday-optimizer/internal/holidays"
	"github.com/username/holiday-optimizer/internal/optimizer"
)

// State is the persisted set of saved plans
type State struct {
	Plans     map[string]*Plan `json:"plans"` // country-year-style -> plan
	UpdatedAt string           `json:"updated_at"`
}

// StateManager keeps the last saved plan per country, year and style in a JSON file
type StateManager struct {
	stateFile string
	state     *State
	logger    *zap.Logger
}

// NewStateManager creates a new state manager
func NewStateManager(stateFile string, logger *zap.Logger) *StateManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateManager{
		stateFile: stateFile,
		logger:    logger,
	}
}

// Load loads the state from file
func (sm *StateManager) Load() error {
	data, err := os.ReadFile(sm.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// created on first save
			sm.state = &State{Plans: make(map[string]*Plan)}
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Plans == nil {
		state.Plans = make(map[string]*Plan)
	}

	sm.state = &state
	sm.logger.Info("Plan state loaded",
		zap.String("file", sm.stateFile),
		zap.Int("plans", len(state.Plans)))

	return nil
}

// Save writes the state to file
func (sm *StateManager) Save() error {
	if sm.state == nil {
		sm.state = &State{Plans: make(map[string]*Plan)}
	}
	sm.state.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(sm.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(sm.stateFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}
	if err := os.WriteFile(sm.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	sm.logger.Info("Plan state saved",
		zap.String("file", sm.stateFile),
		zap.Int("plans", len(sm.state.Plans)))

	return nil
}

// Record stores p as the latest plan for its inputs and saves the state
func (sm *StateManager) Record(p *Plan) error {
	if sm.state == nil {
		if err := sm.Load(); err != nil {
			return err
		}
	}
	sm.state.Plans[stateKey(p.Preferences.Country, p.Year, p.Preferences.VacationStyle)] = p
	return sm.Save()
}

// Last returns the saved plan for country, year and style
func (sm *StateManager) Last(country string, year int, style optimizer.VacationStyle) (*Plan, bool) {
	if sm.state == nil {
		return nil, false
	}
	p, ok := sm.state.Plans[stateKey(country, year, style)]
	return p, ok
}

func stateKey(country string, year int, style optimizer.VacationStyle) string {
	if style == "" {
		style = optimizer.StyleBalanced
	}
	return fmt.Sprintf("%s-%d-%s", holidays.NormalizeCountry(country), year, style)
}
