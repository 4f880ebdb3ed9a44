package models

// Team is a pair (or more) of participants registered together.
// Teams are immutable once any match references them.
type Team struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	ParticipantIDs []string `json:"participant_ids"`
	Seed           *int     `json:"seed,omitempty"`

	// Bye marks a placeholder entry that never plays. Placeholders are
	// skipped by the scheduler and get no standing.
	Bye bool `json:"bye,omitempty"`
}

// Group is a fixed-capacity bucket of teams for the round-robin stage.
type Group struct {
	ID       string   `json:"id"`
	Number   int      `json:"number"`
	Capacity int      `json:"capacity"`
	TeamIDs  []string `json:"team_ids"` // registration order
}

func (g *Group) HasTeam(teamID string) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}
