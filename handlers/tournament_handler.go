package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/services"
)

// TournamentService is what the HTTP layer needs from *services.TournamentService.
type TournamentService interface {
	CreateTournament(ctx context.Context, in services.CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, limit, offset int) ([]repositories.SnapshotSummary, error)
	ScheduleGroups(ctx context.Context, id, groupID string) (*models.Tournament, error)
	RecordResult(ctx context.Context, id string, in brackets.ResultInput) (*models.Tournament, *models.Match, error)
	RecomputeStandings(ctx context.Context, id string) ([]services.GroupStandings, error)
	GetStandings(ctx context.Context, id string) ([]services.GroupStandings, error)
	BuildBracket(ctx context.Context, id string) (*brackets.Bracket, error)
	GetBracket(ctx context.Context, id string) (*brackets.Bracket, error)
	GetBoard(ctx context.Context, id string) (*services.Board, error)
}

type TournamentHandler struct {
	tournamentService TournamentService
}

func NewTournamentHandler(ts TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// CreateHandler godoc
// @Summary Create a tournament
// @Description Registers teams and draws them into groups. Settings override the server defaults.
// @Tags tournaments
// @Accept json
// @Produce json
// @Param input body services.CreateTournamentInput true "Tournament"
// @Success 201 {object} map[string]interface{} "Created tournament snapshot"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 422 {object} map[string]string "Validation failed"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler godoc
// @Summary Get a tournament snapshot
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID} [get]
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /tournaments
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20, 1)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ScheduleHandler godoc
// @Summary Generate round-robin matches
// @Description Schedules one group when group_id is given, otherwise every group.
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param group_id query string false "Group ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Already scheduled"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/schedule [post]
func (h *TournamentHandler) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.ScheduleGroups(r.Context(), id, r.URL.Query().Get("group_id"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	matches := make([]*models.Match, 0, len(tournament.Matches))
	for _, m := range tournament.Matches {
		if m.Stage == models.StageGroup {
			matches = append(matches, m)
		}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"version": tournament.Version, "matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type recordResultRequest struct {
	Score1 int               `json:"score1"`
	Score2 int               `json:"score2"`
	Sets   []models.SetScore `json:"sets,omitempty"`
}

// RecordResultHandler godoc
// @Summary Record or correct a match result
// @Tags matches
// @Accept json
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Param matchID path string true "Match ID, e.g. G1_M3 or R1M2"
// @Param input body recordResultRequest true "Score"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Winner already advanced and played"
// @Failure 422 {object} map[string]string "Invalid or tied score"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/matches/{matchID}/result [post]
func (h *TournamentHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input recordResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, match, err := h.tournamentService.RecordResult(r.Context(), id, brackets.ResultInput{
		MatchID: matchID,
		Score1:  input.Score1,
		Score2:  input.Score2,
		Sets:    input.Sets,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{
		"version": tournament.Version,
		"stage":   tournament.Stage,
		"match":   match,
	}
	if tournament.ChampionID != nil {
		resp["champion_id"] = *tournament.ChampionID
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandingsHandler godoc
// @Summary Group standings in position order
// @Tags standings
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.GetStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeStandingsHandler rebuilds every table from stored matches.
func (h *TournamentHandler) RecomputeStandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.tournamentService.RecomputeStandings(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BuildBracketHandler godoc
// @Summary Close the group stage and seed the elimination bracket
// @Tags bracket
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 201 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Bracket already built"
// @Failure 422 {object} map[string]string "Standings incomplete or too few qualifiers"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *TournamentHandler) BuildBracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.tournamentService.BuildBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracketHandler godoc
// @Summary Elimination bracket grouped by round
// @Tags bracket
// @Produce json
// @Param tournamentID path string true "Tournament ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Tournament missing or bracket not built"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *TournamentHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.tournamentService.GetBracket(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBoardHandler returns what the live page renders: tables, bracket and champion.
func (h *TournamentHandler) GetBoardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.tournamentService.GetBoard(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"board": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
