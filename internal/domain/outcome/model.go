package outcome

import "strings"

type Result string

const (
	ResultWin  Result = "WIN"
	ResultDraw Result = "DRAW"
	ResultLoss Result = "LOSS"
)

// NormalizeResult maps free-form input onto the closed result set. Unknown
// values fall back to LOSS so a bad upstream payload never inflates awards.
func NormalizeResult(value string) Result {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "WIN", "W":
		return ResultWin
	case "DRAW", "D":
		return ResultDraw
	default:
		return ResultLoss
	}
}

// PlayerGameOutcome is the canonical per-player view of one finished match.
// It exists only for the duration of a processing run.
type PlayerGameOutcome struct {
	MatchID       string
	UserID        string
	Team          string
	OwnScore      int
	OpponentScore int
	Goals         int
	Assists       int
	Saves         int
	YellowCards   int
	RedCards      int
	Result        Result
	WasMvp        bool
	WasBestKeeper bool
	WasWorst      bool
	CleanSheet    bool
}

// GoalDiff is the signed score difference from the player's side.
func (o PlayerGameOutcome) GoalDiff() int {
	return o.OwnScore - o.OpponentScore
}
