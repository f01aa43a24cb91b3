package outcome

import (
	"errors"
	"fmt"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
)

var (
	ErrMatchNotFinished     = errors.New("match is not finished")
	ErrNegativeScore        = errors.New("negative team score")
	ErrMissingTeam          = errors.New("missing team assignment")
	ErrUnknownTeam          = errors.New("unknown team assignment")
	ErrNegativeStat         = errors.New("negative player statistic")
	ErrConflictingVotes     = errors.New("player flagged as both mvp and worst player")
	ErrDuplicateDesignation = errors.New("duplicate player in confirmed roster")
)

// Normalize turns a finished match plus its roster confirmations into one
// canonical outcome per confirmed player. It is pure: same inputs, same
// output, and it never returns a partial slice alongside an error.
func Normalize(m match.Match, confirmations []match.Confirmation) ([]PlayerGameOutcome, error) {
	if !match.IsFinishedStatus(m.Status) {
		return nil, fmt.Errorf("%w: match=%s status=%s", ErrMatchNotFinished, m.ID, m.Status)
	}
	if m.TeamAScore < 0 || m.TeamBScore < 0 {
		return nil, fmt.Errorf("%w: match=%s a=%d b=%d", ErrNegativeScore, m.ID, m.TeamAScore, m.TeamBScore)
	}

	out := make([]PlayerGameOutcome, 0, len(confirmations))
	seen := make(map[string]struct{}, len(confirmations))
	for _, row := range confirmations {
		if !match.IsConfirmed(row.Status) {
			continue
		}
		if _, exists := seen[row.UserID]; exists {
			return nil, fmt.Errorf("%w: match=%s user=%s", ErrDuplicateDesignation, m.ID, row.UserID)
		}
		seen[row.UserID] = struct{}{}

		team := match.NormalizeTeam(row.Team)
		if team == "" {
			return nil, fmt.Errorf("%w: match=%s user=%s", ErrMissingTeam, m.ID, row.UserID)
		}
		if team != match.TeamA && team != match.TeamB {
			return nil, fmt.Errorf("%w: match=%s user=%s team=%s", ErrUnknownTeam, m.ID, row.UserID, team)
		}
		if row.Goals < 0 || row.Assists < 0 || row.Saves < 0 || row.YellowCards < 0 || row.RedCards < 0 {
			return nil, fmt.Errorf("%w: match=%s user=%s", ErrNegativeStat, m.ID, row.UserID)
		}

		wasMvp := m.MvpUserID != "" && m.MvpUserID == row.UserID
		wasWorst := m.WorstUserID != "" && m.WorstUserID == row.UserID
		if wasMvp && wasWorst {
			return nil, fmt.Errorf("%w: match=%s user=%s", ErrConflictingVotes, m.ID, row.UserID)
		}

		own, opponent := m.Score(team)
		out = append(out, PlayerGameOutcome{
			MatchID:       m.ID,
			UserID:        row.UserID,
			Team:          team,
			OwnScore:      own,
			OpponentScore: opponent,
			Goals:         row.Goals,
			Assists:       row.Assists,
			Saves:         row.Saves,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
			Result:        resultFromScores(own, opponent),
			WasMvp:        wasMvp,
			WasBestKeeper: m.BestKeeperUserID != "" && m.BestKeeperUserID == row.UserID,
			WasWorst:      wasWorst,
			CleanSheet:    row.IsGoalkeeper && opponent == 0,
		})
	}

	return out, nil
}

func resultFromScores(own, opponent int) Result {
	switch {
	case own > opponent:
		return ResultWin
	case own < opponent:
		return ResultLoss
	default:
		return ResultDraw
	}
}
