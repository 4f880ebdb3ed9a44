package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
)

func teamName(t *models.Tournament, id *string) string {
	if id == nil {
		return "TBD"
	}
	if team := t.TeamByID(*id); team != nil {
		return team.Name
	}
	return *id
}

func scoreText(m *models.Match) string {
	if !m.Completed || m.Score1 == nil || m.Score2 == nil {
		return "-"
	}
	return fmt.Sprintf("%d-%d", *m.Score1, *m.Score2)
}

func printSchedule(w io.Writer, t *models.Tournament) {
	for _, g := range t.SortedGroups() {
		fmt.Fprintf(w, "Group %d\n", g.Number)
		for _, m := range t.GroupMatches(g.ID) {
			fmt.Fprintf(w, "  %-8s round %d  %s vs %s  %s\n", m.ID, m.Round, teamName(t, m.Team1ID), teamName(t, m.Team2ID), scoreText(m))
		}
	}
}

func printStandings(w io.Writer, t *models.Tournament, view []services.GroupStandings) error {
	unit := "Sets"
	if t.Settings.ScoringMode == models.ScoringGames {
		unit = "Games"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, g := range view {
		fmt.Fprintf(tw, "Group %d\n", g.Number)
		fmt.Fprintf(tw, "#\tTeam\tP\tW\tL\t%s\tDiff\tPts\t\n", unit)
		for _, row := range g.Rows {
			won, lost, diff := row.SetsWon, row.SetsLost, row.SetDifference
			if t.Settings.ScoringMode == models.ScoringGames {
				won, lost, diff = row.GamesWon, row.GamesLost, row.GameDifference
			}
			mark := ""
			if row.Qualified {
				mark = " *"
			}
			fmt.Fprintf(tw, "%d\t%s%s\t%d\t%d\t%d\t%d:%d\t%+d\t%d\t\n",
				row.Position, teamName(t, &row.TeamID), mark,
				row.MatchesPlayed, row.Wins, row.Losses, won, lost, diff, row.Points)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func printBracket(w io.Writer, t *models.Tournament, b *brackets.Bracket) {
	fmt.Fprintf(w, "Bracket of %d (%d byes)\n", b.Size, b.Byes)
	for _, round := range b.Rounds {
		fmt.Fprintf(w, "%s\n", round.Name)
		for _, m := range round.Matches {
			if brackets.HasBye(m) {
				fmt.Fprintf(w, "  %-6s %s advances on a bye\n", m.ID, teamName(t, brackets.ByeAdvancingTeam(m)))
				continue
			}
			fmt.Fprintf(w, "  %-6s %s vs %s  %s\n", m.ID, teamName(t, m.Team1ID), teamName(t, m.Team2ID), scoreText(m))
		}
	}
	if t.ChampionID != nil {
		fmt.Fprintf(w, "Champion: %s\n", teamName(t, t.ChampionID))
	}
}
