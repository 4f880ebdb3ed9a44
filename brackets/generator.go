package brackets

import "github.com/Dosada05/tournament-brackets/models"

type GenerateBracketParams struct {
	Group      *models.Group
	Teams      []*models.Team
	Qualifiers []Qualifier
}

// BracketGenerator produces the matches of one tournament phase.
type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) ([]*models.Match, error)

	GetName() string
}
