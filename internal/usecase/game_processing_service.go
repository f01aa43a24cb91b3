package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/outcome"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/id"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/resilience"
)

const defaultProcessingWorkers = 4

// workerPool is the slice of ants.Pool the fan-out needs; tests swap it out.
type workerPool interface {
	Submit(task func()) error
	Release()
}

// GameProcessingService turns one finished match into XP awards, milestone
// unlocks, streak updates, and season standing updates for every confirmed
// player. Processing a match twice must change nothing: the per-player ledger
// append is the idempotency gate, and the match-level processed flag is only
// flipped after every player is ledgered.
type GameProcessingService struct {
	matchRepo    match.Repository
	settingsRepo xp.SettingsRepository
	statsRepo    stats.Repository
	ledgerRepo   ledger.Repository
	streakRepo   streak.Repository
	unlockRepo   milestone.UnlockRepository
	seasonRepo   season.Repository
	catalog      *milestone.Catalog
	levels       *xp.LevelTable
	idGen        id.Generator
	logger       *logging.Logger
	streakPolicy streak.Policy
	maxWorkers   int
	now          func() time.Time
	newPool      func(size int) (workerPool, error)

	processFlight resilience.SingleFlight
}

type PlayerAward struct {
	UserID               string       `json:"user_id"`
	XpAwarded            int          `json:"xp_awarded"`
	XpAfter              int          `json:"xp_after"`
	LevelBefore          int          `json:"level_before"`
	LevelAfter           int          `json:"level_after"`
	StreakAfterGame      int          `json:"streak_after_game"`
	Breakdown            xp.Breakdown `json:"breakdown"`
	UnlockedMilestoneIDs []string     `json:"unlocked_milestone_ids,omitempty"`
}

type ProcessMatchResult struct {
	MatchID          string        `json:"match_id"`
	AlreadyProcessed bool          `json:"already_processed"`
	PlayersProcessed int           `json:"players_processed"`
	PlayersSkipped   int           `json:"players_skipped"`
	Awards           []PlayerAward `json:"awards"`
}

func NewGameProcessingService(
	matchRepo match.Repository,
	settingsRepo xp.SettingsRepository,
	statsRepo stats.Repository,
	ledgerRepo ledger.Repository,
	streakRepo streak.Repository,
	unlockRepo milestone.UnlockRepository,
	seasonRepo season.Repository,
	catalog *milestone.Catalog,
	levels *xp.LevelTable,
	idGen id.Generator,
	logger *logging.Logger,
) *GameProcessingService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GameProcessingService{
		matchRepo:    matchRepo,
		settingsRepo: settingsRepo,
		statsRepo:    statsRepo,
		ledgerRepo:   ledgerRepo,
		streakRepo:   streakRepo,
		unlockRepo:   unlockRepo,
		seasonRepo:   seasonRepo,
		catalog:      catalog,
		levels:       levels,
		idGen:        idGen,
		logger:       logger,
		streakPolicy: streak.DefaultPolicy(),
		maxWorkers:   defaultProcessingWorkers,
		now:          time.Now,
		newPool: func(size int) (workerPool, error) {
			pool, err := ants.NewPool(size)
			if err != nil {
				return nil, err
			}
			return pool, nil
		},
	}
}

// SetStreakPolicy overrides the attendance continuation policy, typically from
// configuration at startup.
func (s *GameProcessingService) SetStreakPolicy(policy streak.Policy) {
	if policy.MaxGapDays > 0 {
		s.streakPolicy = policy
	}
}

func (s *GameProcessingService) SetMaxWorkers(count int) {
	if count > 0 {
		s.maxWorkers = count
	}
}

// ProcessMatch runs the full award pipeline for one finished match. Concurrent
// calls for the same match collapse into one run; repeated calls after success
// report AlreadyProcessed without changing anything.
func (s *GameProcessingService) ProcessMatch(ctx context.Context, matchID string) (ProcessMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameProcessingService.ProcessMatch")
	defer span.End()

	if matchID == "" {
		return ProcessMatchResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := "gamification:process:" + matchID
	value, err, _ := s.processFlight.Do(key, func() (any, error) {
		return s.processMatchOnce(ctx, matchID)
	})
	if err != nil {
		return ProcessMatchResult{}, err
	}
	result, ok := value.(ProcessMatchResult)
	if !ok {
		return ProcessMatchResult{}, fmt.Errorf("unexpected process result type for match=%s", matchID)
	}
	return result, nil
}

func (s *GameProcessingService) processMatchOnce(ctx context.Context, matchID string) (ProcessMatchResult, error) {
	processed, err := s.matchRepo.IsProcessed(ctx, matchID)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("check processed gate match=%s: %w", matchID, err)
	}
	if processed {
		return ProcessMatchResult{MatchID: matchID, AlreadyProcessed: true}, nil
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("get match for processing: %w", err)
	}
	if !found {
		return ProcessMatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	confirmations, err := s.matchRepo.ListConfirmationsByMatch(ctx, matchID)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("list confirmations match=%s: %w", matchID, err)
	}

	outcomes, err := outcome.Normalize(m, confirmations)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	result := ProcessMatchResult{MatchID: matchID}
	if len(outcomes) == 0 {
		// Nothing to award, but the match still counts as processed so it is
		// not retried forever.
		if _, err := s.matchRepo.TryMarkProcessed(ctx, matchID); err != nil {
			return ProcessMatchResult{}, fmt.Errorf("mark empty match processed match=%s: %w", matchID, err)
		}
		return result, nil
	}

	settings, err := s.loadSettings(ctx, m.GroupID)
	if err != nil {
		return ProcessMatchResult{}, err
	}

	seasonID, err := s.resolveSeasonID(ctx, m)
	if err != nil {
		return ProcessMatchResult{}, err
	}

	// A previous partially-failed run may have ledgered some players already.
	// Those are skipped, everything else is retried.
	ledgered, err := s.ledgerRepo.ListUserIDsByMatch(ctx, matchID)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("list ledgered users match=%s: %w", matchID, err)
	}

	workerCount := s.maxWorkers
	if workerCount > len(outcomes) {
		workerCount = len(outcomes)
	}
	pool, err := s.newPool(workerCount)
	if err != nil {
		return ProcessMatchResult{}, fmt.Errorf("create processing worker pool: %w", err)
	}
	defer pool.Release()

	type playerRow struct {
		award   PlayerAward
		skipped bool
		err     error
	}
	rows := make(chan playerRow, len(outcomes))

	var processedCount atomic.Int32
	var skippedCount atomic.Int32

	var submitErr error
	var workers sync.WaitGroup
	for _, o := range outcomes {
		o := o
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if _, exists := ledgered[o.UserID]; exists {
				skippedCount.Add(1)
				rows <- playerRow{skipped: true}
				return
			}

			award, skipped, perr := s.processPlayer(ctx, m, o, settings, seasonID)
			if perr != nil {
				rows <- playerRow{err: fmt.Errorf("process player match=%s user=%s: %w", matchID, o.UserID, perr)}
				return
			}
			if skipped {
				skippedCount.Add(1)
				rows <- playerRow{skipped: true}
				return
			}
			processedCount.Add(1)
			rows <- playerRow{award: award}
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit player task to worker pool: %w", err)
			break
		}
	}

	// Players already submitted finish before any error return, so no ledger
	// or stats writes trail it.
	workers.Wait()
	close(rows)

	var failures []error
	if submitErr != nil {
		failures = append(failures, submitErr)
	}
	for row := range rows {
		if row.err != nil {
			failures = append(failures, row.err)
			continue
		}
		if row.skipped {
			continue
		}
		result.Awards = append(result.Awards, row.award)
	}
	if len(failures) > 0 {
		// The processed gate stays down so a retry picks up the failed
		// players; the succeeded ones are protected by their ledger entries.
		return ProcessMatchResult{}, errors.Join(failures...)
	}

	sort.SliceStable(result.Awards, func(i, j int) bool {
		return result.Awards[i].UserID < result.Awards[j].UserID
	})
	result.PlayersProcessed = int(processedCount.Load())
	result.PlayersSkipped = int(skippedCount.Load())

	if _, err := s.matchRepo.TryMarkProcessed(ctx, matchID); err != nil {
		return ProcessMatchResult{}, fmt.Errorf("mark match processed match=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match processed",
		"match_id", matchID,
		"group_id", m.GroupID,
		"players_processed", result.PlayersProcessed,
		"players_skipped", result.PlayersSkipped,
	)
	return result, nil
}

func (s *GameProcessingService) processPlayer(
	ctx context.Context,
	m match.Match,
	o outcome.PlayerGameOutcome,
	settings xp.Settings,
	seasonID string,
) (PlayerAward, bool, error) {
	streakState, err := s.advanceStreak(ctx, m, o.UserID)
	if err != nil {
		return PlayerAward{}, false, err
	}

	current, found, err := s.statsRepo.GetByUser(ctx, o.UserID)
	if err != nil {
		return PlayerAward{}, false, fmt.Errorf("get statistics: %w", err)
	}
	if !found {
		current = stats.Statistics{UserID: o.UserID}
	}

	breakdown := xp.Calculate(o, settings, streakState.CurrentStreak)

	// Milestones are evaluated against the snapshot after this game's base
	// award; the unlock bonus is then stacked on top of the same award.
	projected := current.Apply(stats.DeltaFromOutcome(o, breakdown.Total, streakState.CurrentStreak))
	previously, err := s.unlockRepo.ListIDsByUser(ctx, o.UserID)
	if err != nil {
		return PlayerAward{}, false, fmt.Errorf("list unlocked milestones: %w", err)
	}
	check := milestone.CheckAll(s.catalog, projected, previously)

	breakdown = breakdown.AddMilestoneBonus(check.BonusXp).ClampTotal(current.TotalXp)
	delta := stats.DeltaFromOutcome(o, breakdown.Total, streakState.CurrentStreak)

	xpBefore := current.TotalXp
	xpAfter := xpBefore + breakdown.Total
	progress := s.levels.Resolve(xpBefore, xpAfter)
	now := s.now().UTC()

	entry := ledger.Entry{
		ID:                   s.idGen.NewID(),
		MatchID:              m.ID,
		UserID:               o.UserID,
		GroupID:              m.GroupID,
		SeasonID:             seasonID,
		XpBefore:             xpBefore,
		XpAfter:              xpAfter,
		LevelBefore:          progress.LevelBefore,
		LevelAfter:           progress.LevelAfter,
		Breakdown:            breakdown,
		Delta:                delta,
		UnlockedMilestoneIDs: check.NewUnlockIDs,
		StreakAfterGame:      streakState.CurrentStreak,
		PlayedAt:             m.PlayedAt,
		CreatedAt:            now,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		if errors.Is(err, ledger.ErrDuplicateEntry) {
			return PlayerAward{}, true, nil
		}
		return PlayerAward{}, false, fmt.Errorf("append ledger entry: %w", err)
	}

	if _, err := s.statsRepo.ApplyDelta(ctx, o.UserID, delta); err != nil {
		return PlayerAward{}, false, fmt.Errorf("apply statistics delta: %w", err)
	}

	for _, milestoneID := range check.NewUnlockIDs {
		if err := s.unlockRepo.Record(ctx, milestone.Unlock{
			UserID:      o.UserID,
			MilestoneID: milestoneID,
			Count:       1,
			UnlockedAt:  now,
		}); err != nil {
			return PlayerAward{}, false, fmt.Errorf("record milestone unlock id=%s: %w", milestoneID, err)
		}
	}

	if seasonID != "" {
		if err := s.updateSeasonParticipation(ctx, seasonID, o, breakdown.Total, m.PlayedAt, now); err != nil {
			return PlayerAward{}, false, err
		}
	}

	return PlayerAward{
		UserID:               o.UserID,
		XpAwarded:            breakdown.Total,
		XpAfter:              xpAfter,
		LevelBefore:          progress.LevelBefore,
		LevelAfter:           progress.LevelAfter,
		StreakAfterGame:      streakState.CurrentStreak,
		Breakdown:            breakdown,
		UnlockedMilestoneIDs: check.NewUnlockIDs,
	}, false, nil
}

// advanceStreak folds the match date into the player's attendance streak. A
// backfilled match older than the recorded last game triggers a full replay of
// the player's finished-match history instead of a corrupting forward step.
func (s *GameProcessingService) advanceStreak(ctx context.Context, m match.Match, userID string) (streak.UserStreak, error) {
	prior, found, err := s.streakRepo.Get(ctx, userID, m.ScheduleID)
	if err != nil {
		return streak.UserStreak{}, fmt.Errorf("get streak: %w", err)
	}
	if !found {
		prior = streak.UserStreak{UserID: userID, ScheduleID: m.ScheduleID}
	}

	var next streak.UserStreak
	if streak.IsOutOfOrder(prior, m.PlayedAt) {
		history, err := s.matchRepo.ListFinishedByUser(ctx, userID, m.ScheduleID)
		if err != nil {
			return streak.UserStreak{}, fmt.Errorf("list finished matches for streak replay: %w", err)
		}
		dates := make([]time.Time, 0, len(history)+1)
		for _, item := range history {
			dates = append(dates, item.PlayedAt)
		}
		dates = append(dates, m.PlayedAt)
		next = streak.Replay(userID, m.ScheduleID, dates, s.streakPolicy)
	} else {
		next = streak.Advance(prior, m.PlayedAt, s.streakPolicy)
	}

	if err := s.streakRepo.Upsert(ctx, next); err != nil {
		return streak.UserStreak{}, fmt.Errorf("upsert streak: %w", err)
	}
	return next, nil
}

func (s *GameProcessingService) updateSeasonParticipation(
	ctx context.Context,
	seasonID string,
	o outcome.PlayerGameOutcome,
	awardedXp int,
	playedAt, now time.Time,
) error {
	participation, found, err := s.seasonRepo.GetParticipation(ctx, seasonID, o.UserID)
	if err != nil {
		return fmt.Errorf("get season participation: %w", err)
	}
	if !found {
		participation = season.Participation{SeasonID: seasonID, UserID: o.UserID}
	}

	participation = participation.PushSample(season.OutcomeSample{
		MatchID:  o.MatchID,
		PlayedAt: playedAt,
		Xp:       awardedXp,
		Won:      o.Result == outcome.ResultWin,
		Drawn:    o.Result == outcome.ResultDraw,
		GoalDiff: o.GoalDiff(),
		WasMvp:   o.WasMvp,
	})
	participation.LeagueRating = season.ComputeRating(participation.Window)
	participation.Division = season.DivisionFor(participation.LeagueRating)
	participation.UpdatedAt = now

	if err := s.seasonRepo.UpsertParticipation(ctx, participation); err != nil {
		return fmt.Errorf("upsert season participation: %w", err)
	}
	return nil
}

func (s *GameProcessingService) loadSettings(ctx context.Context, groupID string) (xp.Settings, error) {
	settings, found, err := s.settingsRepo.GetByGroup(ctx, groupID)
	if err != nil {
		return xp.Settings{}, fmt.Errorf("get xp settings group=%s: %w", groupID, err)
	}
	if !found {
		settings = xp.DefaultSettings()
		settings.GroupID = groupID
	}
	if err := settings.Validate(); err != nil {
		return xp.Settings{}, fmt.Errorf("%w: stored xp settings group=%s: %v", ErrInvalidInput, groupID, err)
	}
	return settings, nil
}

func (s *GameProcessingService) resolveSeasonID(ctx context.Context, m match.Match) (string, error) {
	if m.SeasonID != "" {
		return m.SeasonID, nil
	}
	active, found, err := s.seasonRepo.GetActiveByGroup(ctx, m.GroupID)
	if err != nil {
		return "", fmt.Errorf("get active season group=%s: %w", m.GroupID, err)
	}
	if !found {
		return "", nil
	}
	return active.ID, nil
}
