package season

import "time"

// WindowSize bounds the recent-outcome window used by the rating formula.
const WindowSize = 10

// Season is one competitive period. At most one season per type is active,
// which the scheduling service enforces before matches reach this pipeline.
type Season struct {
	ID        string
	GroupID   string
	Name      string
	StartsAt  time.Time
	EndsAt    time.Time
	IsActive  bool
}

// OutcomeSample is the slice of one match kept inside the rating window.
type OutcomeSample struct {
	MatchID  string    `json:"match_id"`
	PlayedAt time.Time `json:"played_at"`
	Xp       int       `json:"xp"`
	Won      bool      `json:"won"`
	Drawn    bool      `json:"drawn"`
	GoalDiff int       `json:"goal_diff"`
	WasMvp   bool      `json:"was_mvp"`
}

// Participation is the per-user-per-season competitive record. Window holds
// the most recent samples, oldest first; the rating is always recomputed from
// it, never adjusted incrementally.
type Participation struct {
	SeasonID     string
	UserID       string
	Games        int
	Wins         int
	Draws        int
	Losses       int
	Window       []OutcomeSample
	LeagueRating float64
	Division     Division
	UpdatedAt    time.Time
}

// PushSample appends a sample to the bounded window, evicting the oldest.
func (p Participation) PushSample(sample OutcomeSample) Participation {
	window := append(append([]OutcomeSample(nil), p.Window...), sample)
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}
	p.Window = window

	p.Games++
	switch {
	case sample.Won:
		p.Wins++
	case sample.Drawn:
		p.Draws++
	default:
		p.Losses++
	}
	return p
}
