package season

import "strings"

type Division string

const (
	DivisionSerieA Division = "SERIE_A"
	DivisionSerieB Division = "SERIE_B"
	DivisionSerieC Division = "SERIE_C"
	DivisionVarzea Division = "VARZEA"
)

// NormalizeDivision maps free-form input onto the closed division set,
// falling back to the bottom tier.
func NormalizeDivision(value string) Division {
	switch Division(strings.ToUpper(strings.TrimSpace(value))) {
	case DivisionSerieA, DivisionSerieB, DivisionSerieC, DivisionVarzea:
		return Division(strings.ToUpper(strings.TrimSpace(value)))
	default:
		return DivisionVarzea
	}
}

// Rating sub-score weights. Each sub-score lands on a 0-100 scale before
// weighting.
const (
	weightXpPerGame = 0.4
	weightWinRate   = 0.3
	weightGoalDiff  = 0.2
	weightMvpRate   = 0.1

	// xpPerGameCeiling is the average XP per game that maxes the XP sub-score.
	xpPerGameCeiling = 200.0
	// mvpRateCeiling is the MVP share that maxes the MVP sub-score.
	mvpRateCeiling = 0.5
)

// ComputeRating recomputes the league rating from the recent-outcome window.
// It reads only the window, so re-running it any number of times over the
// same samples yields the same rating.
func ComputeRating(window []OutcomeSample) float64 {
	games := len(window)
	if games == 0 {
		return 0
	}

	totalXp := 0
	wins := 0
	goalDiffSum := 0
	mvpGames := 0
	for _, sample := range window {
		totalXp += sample.Xp
		if sample.Won {
			wins++
		}
		goalDiffSum += sample.GoalDiff
		if sample.WasMvp {
			mvpGames++
		}
	}

	avgXp := float64(totalXp) / float64(games)
	xpScore := clamp01(avgXp/xpPerGameCeiling) * 100

	winScore := float64(wins) / float64(games) * 100

	avgGoalDiff := float64(goalDiffSum) / float64(games)
	goalDiffScore := clamp01((avgGoalDiff+3)/6) * 100

	mvpRate := float64(mvpGames) / float64(games)
	mvpScore := clamp01(mvpRate/mvpRateCeiling) * 100

	return weightXpPerGame*xpScore + weightWinRate*winScore +
		weightGoalDiff*goalDiffScore + weightMvpRate*mvpScore
}

// DivisionFor maps a rating onto a division tier. Thresholds are monotonic
// and non-overlapping.
func DivisionFor(rating float64) Division {
	switch {
	case rating >= 70:
		return DivisionSerieA
	case rating >= 50:
		return DivisionSerieB
	case rating >= 30:
		return DivisionSerieC
	default:
		return DivisionVarzea
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
