package services

import "errors"

// Общие ошибки, используемые в сервисах и маппинге HTTP.
// Engine rejections are not wrapped here; callers classify them with
// brackets.KindOf.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrBracketNotBuilt    = errors.New("elimination bracket has not been built yet")

	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrNotEnoughTeams         = errors.New("at least two teams are required")
	ErrDuplicateTeam          = errors.New("team is listed more than once")
	ErrUnknownTeam            = errors.New("group references an unknown team")
	ErrTeamWithoutGroup       = errors.New("team is not assigned to any group")
	ErrGroupOverCapacity      = errors.New("group exceeds the configured capacity")
	ErrGroupTooSmall          = errors.New("group needs at least two teams")

	// Конфликты параллельной записи
	ErrTournamentConflict = errors.New("tournament was modified concurrently, retry the request")
	ErrTournamentBusy     = errors.New("tournament is locked by another operation")
)
