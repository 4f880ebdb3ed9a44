package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/config"
	"github.com/Dosada05/tournament-brackets/db"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var (
		name     string
		teams    []string
		groups   string
		settings string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a tournament snapshot and draw the groups",
		Example: `  bracketctl init --name "Club Open" -o open.json \
    --team a:Aces --team b:Bolts --team c:Comets --team d:Drift \
    --groups "a,b;c,d" --settings '{"advance_per_group":1}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.CreateTournamentInput{Name: name}
			for _, raw := range teams {
				in.Teams = append(in.Teams, parseTeam(raw))
			}
			if groups != "" {
				in.Groups = parseGroups(groups)
			}
			if settings != "" {
				in.Settings = json.RawMessage(settings)
			}

			ctx := cmd.Context()
			s := newSession(opts.logger, nil)
			t, err := s.svc.CreateTournament(ctx, in)
			if err != nil {
				return err
			}
			s.id = t.ID
			if _, err := s.save(ctx, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s): %d teams in %d groups\n", t.Name, t.ID, len(t.Teams), len(t.Groups))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Tournament name")
	cmd.Flags().StringArrayVar(&teams, "team", nil, "Team as id:name, or just a name (repeatable)")
	cmd.Flags().StringVar(&groups, "groups", "", "Explicit draw: team ids separated by commas, groups by semicolons")
	cmd.Flags().StringVar(&settings, "settings", "", "Settings JSON overriding the defaults")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Snapshot file to write")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func parseTeam(raw string) services.TeamInput {
	if id, name, ok := strings.Cut(raw, ":"); ok {
		return services.TeamInput{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)}
	}
	return services.TeamInput{Name: strings.TrimSpace(raw)}
}

func parseGroups(raw string) [][]string {
	var out [][]string
	for _, g := range strings.Split(raw, ";") {
		var ids []string
		for _, id := range strings.Split(g, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		group string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate round-robin matches for one group or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts.logger, file)
			if err != nil {
				return err
			}
			if _, err := s.svc.ScheduleGroups(ctx, s.id, group); err != nil {
				return err
			}
			t, err := s.save(ctx, file)
			if err != nil {
				return err
			}
			printSchedule(cmd.OutOrStdout(), t)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot file")
	cmd.Flags().StringVar(&group, "group", "", "Group id; all groups when empty")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRecordCmd(opts *rootOptions) *cobra.Command {
	var (
		file    string
		matchID string
		score   string
		sets    string
	)
	cmd := &cobra.Command{
		Use:     "record",
		Short:   "Record or correct a match result",
		Example: `  bracketctl record -f open.json --match G1_M1 --score 2-1 --sets 6-4,3-6,6-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s1, s2, err := parseScore(score)
			if err != nil {
				return err
			}
			in := brackets.ResultInput{MatchID: matchID, Score1: s1, Score2: s2}
			if sets != "" {
				for _, set := range strings.Split(sets, ",") {
					g1, g2, err := parseScore(set)
					if err != nil {
						return err
					}
					in.Sets = append(in.Sets, models.SetScore{Team1: g1, Team2: g2})
				}
			}

			ctx := cmd.Context()
			s, err := openSession(opts.logger, file)
			if err != nil {
				return err
			}
			_, m, err := s.svc.RecordResult(ctx, s.id, in)
			if err != nil {
				return err
			}
			t, err := s.save(ctx, file)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s %d-%d %s\n", m.ID, teamName(t, m.Team1ID), s1, s2, teamName(t, m.Team2ID))
			if t.ChampionID != nil {
				fmt.Fprintf(w, "champion: %s\n", teamName(t, t.ChampionID))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot file")
	cmd.Flags().StringVar(&matchID, "match", "", "Match id, e.g. G1_M3 or R1M2")
	cmd.Flags().StringVar(&score, "score", "", "Score as team1-team2, e.g. 2-1")
	cmd.Flags().StringVar(&sets, "sets", "", "Optional per-set games, e.g. 6-4,3-6,6-2")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("match")
	_ = cmd.MarkFlagRequired("score")
	return cmd
}

func parseScore(raw string) (int, int, error) {
	a, b, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid score %q: expected N-M", raw)
	}
	s1, err1 := strconv.Atoi(strings.TrimSpace(a))
	s2, err2 := strconv.Atoi(strings.TrimSpace(b))
	if err := errors.Join(err1, err2); err != nil {
		return 0, 0, fmt.Errorf("invalid score %q: %w", raw, err)
	}
	return s1, s2, nil
}

func newStandingsCmd(opts *rootOptions) *cobra.Command {
	var (
		file      string
		recompute bool
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print group tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts.logger, file)
			if err != nil {
				return err
			}

			var view []services.GroupStandings
			if recompute {
				if view, err = s.svc.RecomputeStandings(ctx, s.id); err != nil {
					return err
				}
				if _, err := s.save(ctx, file); err != nil {
					return err
				}
			} else if view, err = s.svc.GetStandings(ctx, s.id); err != nil {
				return err
			}

			t, err := s.svc.GetTournament(ctx, s.id)
			if err != nil {
				return err
			}
			return printStandings(cmd.OutOrStdout(), t, view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot file")
	cmd.Flags().BoolVar(&recompute, "recompute", false, "Rebuild the tables from the matches and save them")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newBracketCmd(opts *rootOptions) *cobra.Command {
	var (
		file  string
		build bool
	)
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Print the elimination bracket, building it first with --build",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openSession(opts.logger, file)
			if err != nil {
				return err
			}

			if build {
				if _, err := s.svc.BuildBracket(ctx, s.id); err != nil {
					return err
				}
				if _, err := s.save(ctx, file); err != nil {
					return err
				}
			}
			b, err := s.svc.GetBracket(ctx, s.id)
			if err != nil {
				return err
			}
			t, err := s.svc.GetTournament(ctx, s.id)
			if err != nil {
				return err
			}
			printBracket(cmd.OutOrStdout(), t, b)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Snapshot file")
	cmd.Flags().BoolVar(&build, "build", false, "Close the group stage and seed the bracket")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	var dsn string

	withMigrator := func(fn func(*db.Migrator) error) error {
		if dsn == "" {
			var err error
			if dsn, err = config.DatabaseURL(); err != nil {
				return err
			}
		}
		conn, err := db.Connect(dsn, 5*time.Second)
		if err != nil {
			return err
		}
		defer conn.Close()
		m, err := db.NewMigrator(conn, opts.logger)
		if err != nil {
			return err
		}
		return fn(m)
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema used by the server",
	}
	cmd.PersistentFlags().StringVar(&dsn, "database-url", "", "PostgreSQL DSN; defaults to DATABASE_URL")

	var target int64
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration, or down to --to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *db.Migrator) error { return m.Down(cmd.Context(), target) })
		},
	}
	down.Flags().Int64Var(&target, "to", 0, "Target version")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *db.Migrator) error { return m.Up(cmd.Context()) })
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *db.Migrator) error { return m.Status() })
			},
		},
		down,
	)
	return cmd
}
