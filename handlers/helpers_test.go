package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantKind brackets.ErrorKind
	}{
		{"tournament missing", services.ErrTournamentNotFound, http.StatusNotFound, ""},
		{"bracket not built", services.ErrBracketNotBuilt, http.StatusNotFound, ""},
		{"match missing", fmt.Errorf("%w: R9M1", brackets.ErrMatchNotFound), http.StatusNotFound, brackets.KindMatchNotFound},
		{"tied score", brackets.ErrTiedScoreNotAllowed, http.StatusUnprocessableEntity, brackets.KindTiedScoreNotAllowed},
		{"standings incomplete", brackets.ErrStandingsIncomplete, http.StatusUnprocessableEntity, brackets.KindStandingsIncomplete},
		{"already scheduled", brackets.ErrDuplicateScheduling, http.StatusConflict, brackets.KindDuplicateScheduling},
		{"advancement locked", brackets.ErrAdvancementLocked, http.StatusConflict, brackets.KindAdvancementLocked},
		{"validation", fmt.Errorf("%w: %w", services.ErrValidationFailed, services.ErrNotEnoughTeams), http.StatusUnprocessableEntity, ""},
		{"busy", services.ErrTournamentBusy, http.StatusConflict, ""},
		{"version conflict", services.ErrTournamentConflict, http.StatusConflict, ""},
		{"wrapped validation", fmt.Errorf("create: %w", fmt.Errorf("%w: %w", services.ErrValidationFailed, services.ErrGroupTooSmall)), http.StatusUnprocessableEntity, ""},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/tournaments/t1", nil)

			mapServiceErrorToHTTP(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.wantKind == "" {
				return
			}
			var body struct {
				Error struct {
					Kind    string `json:"kind"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.wantKind), body.Error.Kind)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"score1": 2, "score2": 1}`, ""},
		{"empty", ``, "body must not be empty"},
		{"unknown field", `{"score3": 1}`, "unknown key"},
		{"wrong type", `{"score1": "two"}`, "incorrect JSON type"},
		{"two values", `{"score1": 1} {"score1": 2}`, "single JSON value"},
		{"syntax", `{"score1": }`, "badly-formed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst recordResultRequest
			err := readJSON(w, r, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 2, dst.Score1)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadJSON_TooLarge(t *testing.T) {
	body := `{"score1": 1, "sets": [` + strings.Repeat(`{"team1": 6, "team2": 4},`, 60_000) + `{"team1": 6, "team2": 4}]}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst recordResultRequest
	err := readJSON(w, r, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be larger")
}
