package models

import (
	"encoding/json"
	"fmt"
)

// ScoringMode says what a match score counts. The engine only compares
// scores; the mode decides whether they feed the sets or the games columns.
type ScoringMode string

const (
	ScoringSets  ScoringMode = "sets"
	ScoringGames ScoringMode = "games"
)

const (
	DefaultPointsPerWin    = 3
	DefaultAdvancePerGroup = 2
	DefaultGroupCapacity   = 4
)

// Settings are stored with the tournament so that reloading a snapshot
// always reproduces the same standings.
type Settings struct {
	PointsPerWin    int         `json:"points_per_win"`
	AdvancePerGroup int         `json:"advance_per_group"`
	GroupCapacity   int         `json:"group_capacity"`
	ScoringMode     ScoringMode `json:"scoring_mode"`

	// CrossGroupSeeding orders teams of equal group rank by their group
	// record before falling back to group number.
	CrossGroupSeeding bool `json:"cross_group_seeding,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		PointsPerWin:    DefaultPointsPerWin,
		AdvancePerGroup: DefaultAdvancePerGroup,
		GroupCapacity:   DefaultGroupCapacity,
		ScoringMode:     ScoringSets,
	}
}

func (s Settings) Validate() error {
	if s.PointsPerWin <= 0 {
		return fmt.Errorf("points_per_win must be positive, got %d", s.PointsPerWin)
	}
	if s.AdvancePerGroup <= 0 {
		return fmt.Errorf("advance_per_group must be positive, got %d", s.AdvancePerGroup)
	}
	if s.GroupCapacity < 2 {
		return fmt.Errorf("group_capacity must be at least 2, got %d", s.GroupCapacity)
	}
	switch s.ScoringMode {
	case ScoringSets, ScoringGames:
	default:
		return fmt.Errorf("unknown scoring_mode %q", s.ScoringMode)
	}
	return nil
}

// ParseSettings reads settings JSON on top of base; zero or missing fields keep the base value.
func ParseSettings(raw []byte, base Settings) (Settings, error) {
	if len(raw) == 0 {
		return base, nil
	}
	var parsed Settings
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return base, fmt.Errorf("invalid settings json: %w", err)
	}
	return base.Merge(parsed), nil
}

// Merge overlays the non-zero fields of override onto s.
func (s Settings) Merge(override Settings) Settings {
	if override.PointsPerWin != 0 {
		s.PointsPerWin = override.PointsPerWin
	}
	if override.AdvancePerGroup != 0 {
		s.AdvancePerGroup = override.AdvancePerGroup
	}
	if override.GroupCapacity != 0 {
		s.GroupCapacity = override.GroupCapacity
	}
	if override.ScoringMode != "" {
		s.ScoringMode = override.ScoringMode
	}
	if override.CrossGroupSeeding {
		s.CrossGroupSeeding = true
	}
	return s
}
