package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initFourTeams(t *testing.T, file string) {
	t.Helper()
	out, err := run(t, "init", "--name", "Club Open", "-o", file,
		"--team", "a:Aces", "--team", "b:Bolts", "--team", "c:Comets", "--team", "d:Drift",
		"--groups", "a,b; c,d",
		"--settings", `{"advance_per_group": 1, "group_capacity": 2}`)
	require.NoError(t, err)
	assert.Contains(t, out, "4 teams in 2 groups")
}

func TestCLI_FullEvent(t *testing.T) {
	for _, name := range []string{"open.json", "open.msgpack"} {
		t.Run(name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), name)
			initFourTeams(t, file)

			out, err := run(t, "schedule", "-f", file)
			require.NoError(t, err)
			assert.Contains(t, out, "G1_M1")
			assert.Contains(t, out, "G2_M1")

			_, err = run(t, "bracket", "-f", file, "--build")
			require.Error(t, err)
			assert.Equal(t, brackets.KindStandingsIncomplete, brackets.KindOf(err))

			_, err = run(t, "record", "-f", file, "--match", "G1_M1", "--score", "2-1", "--sets", "6-4,3-6,6-2")
			require.NoError(t, err)
			_, err = run(t, "record", "-f", file, "--match", "G2_M1", "--score", "0-2")
			require.NoError(t, err)

			out, err = run(t, "standings", "-f", file)
			require.NoError(t, err)
			assert.Contains(t, out, "Group 1")
			assert.Contains(t, out, " *")

			out, err = run(t, "bracket", "-f", file, "--build")
			require.NoError(t, err)
			assert.Contains(t, out, "Bracket of 2 (0 byes)")
			assert.Contains(t, out, "Final")

			out, err = run(t, "record", "-f", file, "--match", "R1M1", "--score", "3-0")
			require.NoError(t, err)
			assert.Contains(t, out, "champion:")

			snap, err := loadSnapshot(file)
			require.NoError(t, err)
			assert.Equal(t, models.StageCompleted, snap.Stage)
			assert.Equal(t, int64(6), snap.Version)
		})
	}
}

func TestCLI_RejectedResultKeepsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cup.json")
	initFourTeams(t, file)
	_, err := run(t, "schedule", "-f", file)
	require.NoError(t, err)
	before, err := loadSnapshot(file)
	require.NoError(t, err)

	_, err = run(t, "record", "-f", file, "--match", "G1_M1", "--score", "1-1")
	assert.Equal(t, brackets.KindTiedScoreNotAllowed, brackets.KindOf(err))

	_, err = run(t, "record", "-f", file, "--match", "G1_M1", "--score", "two-one")
	assert.ErrorContains(t, err, "invalid score")

	after, err := loadSnapshot(file)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
}

func TestParseGroups(t *testing.T) {
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, parseGroups(" a, b ;; c,"))
	assert.Nil(t, parseGroups(";"))
}

func TestParseTeam(t *testing.T) {
	assert.Equal(t, "x", parseTeam("x:Xenon").ID)
	assert.Equal(t, "Xenon", parseTeam("x:Xenon").Name)
	assert.Empty(t, parseTeam("Xenon").ID)
}
