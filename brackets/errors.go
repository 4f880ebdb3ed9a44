package brackets

import "errors"

// ErrorKind names a class of engine validation failure. Callers surface
// these as form errors; none of them leaves partial state behind.
type ErrorKind string

const (
	KindInvalidTeamPair        ErrorKind = "InvalidTeamPair"
	KindTiedScoreNotAllowed    ErrorKind = "TiedScoreNotAllowed"
	KindDuplicateScheduling    ErrorKind = "DuplicateScheduling"
	KindStandingsIncomplete    ErrorKind = "StandingsIncomplete"
	KindInsufficientQualifiers ErrorKind = "InsufficientQualifiers"
	KindInvalidScore           ErrorKind = "InvalidScore"
	KindMatchNotFound          ErrorKind = "MatchNotFound"
	KindGroupNotFound          ErrorKind = "GroupNotFound"
	KindMatchNotReady          ErrorKind = "MatchNotReady"
	KindAdvancementLocked      ErrorKind = "AdvancementLocked"
	KindDuplicateBracket       ErrorKind = "DuplicateBracket"
)

var (
	ErrInvalidTeamPair        = errors.New("match must reference two distinct teams of the same group")
	ErrTiedScoreNotAllowed    = errors.New("tied scores are not allowed")
	ErrDuplicateScheduling    = errors.New("group already has scheduled matches")
	ErrStandingsIncomplete    = errors.New("group standings are not complete")
	ErrInsufficientQualifiers = errors.New("at least two qualified teams are required")
	ErrInvalidScore           = errors.New("invalid score")
	ErrMatchNotFound          = errors.New("match not found")
	ErrGroupNotFound          = errors.New("group not found")
	ErrMatchNotReady          = errors.New("match is not ready to be played")
	ErrAdvancementLocked      = errors.New("winner has already played the next match")
	ErrDuplicateBracket       = errors.New("elimination bracket already built")
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidTeamPair, KindInvalidTeamPair},
	{ErrTiedScoreNotAllowed, KindTiedScoreNotAllowed},
	{ErrDuplicateScheduling, KindDuplicateScheduling},
	{ErrStandingsIncomplete, KindStandingsIncomplete},
	{ErrInsufficientQualifiers, KindInsufficientQualifiers},
	{ErrInvalidScore, KindInvalidScore},
	{ErrMatchNotFound, KindMatchNotFound},
	{ErrGroupNotFound, KindGroupNotFound},
	{ErrMatchNotReady, KindMatchNotReady},
	{ErrAdvancementLocked, KindAdvancementLocked},
	{ErrDuplicateBracket, KindDuplicateBracket},
}

// KindOf returns the engine error kind wrapped in err, or "" when err is
// not an engine error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}
