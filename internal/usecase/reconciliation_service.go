package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
)

const (
	defaultReconcileBatchSize = 200
	defaultReconcileWorkers   = 4
	maxReconcileWorkers       = 8
)

// ReconciliationService re-derives per-user aggregates from the award ledger
// and repairs drift. The ledger is the source of truth: anything the stored
// aggregate says that a full replay does not reproduce is corruption, however
// it got there.
type ReconciliationService struct {
	ledgerRepo ledger.Repository
	statsRepo  stats.Repository
	unlockRepo milestone.UnlockRepository
	catalog    *milestone.Catalog
	logger     *logging.Logger
	batchSize  int
	maxWorkers int
	now        func() time.Time
}

type ReconcileInput struct {
	// UserIDs narrows the run; empty means every user with an aggregate.
	UserIDs []string
	// DryRun reports drift without writing corrections.
	DryRun     bool
	MaxWorkers int
}

type UserDriftReport struct {
	UserID string `json:"user_id"`
	// Drifted is true when the stored aggregate differs from the replay.
	Drifted       bool     `json:"drifted"`
	DriftedFields []string `json:"drifted_fields,omitempty"`
	// MissingUnlocks lists milestones the replayed aggregate satisfies but the
	// unlock store never recorded.
	MissingUnlocks []string `json:"missing_unlocks,omitempty"`
	Corrected      bool     `json:"corrected"`
	Entries        int      `json:"entries"`
}

type ReconcileResult struct {
	UsersChecked   int               `json:"users_checked"`
	UsersDrifted   int               `json:"users_drifted"`
	UsersCorrected int               `json:"users_corrected"`
	FailedCount    int               `json:"failed_count"`
	WorkerCount    int               `json:"worker_count"`
	DryRun         bool              `json:"dry_run"`
	Reports        []UserDriftReport `json:"reports"`
}

func NewReconciliationService(
	ledgerRepo ledger.Repository,
	statsRepo stats.Repository,
	unlockRepo milestone.UnlockRepository,
	catalog *milestone.Catalog,
	logger *logging.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ReconciliationService{
		ledgerRepo: ledgerRepo,
		statsRepo:  statsRepo,
		unlockRepo: unlockRepo,
		catalog:    catalog,
		logger:     logger,
		batchSize:  defaultReconcileBatchSize,
		maxWorkers: defaultReconcileWorkers,
		now:        time.Now,
	}
}

// SetMaxWorkers overrides the default worker count for bulk runs, typically
// from configuration at startup. A per-run ReconcileInput.MaxWorkers still
// takes precedence.
func (s *ReconciliationService) SetMaxWorkers(count int) {
	if count > 0 {
		s.maxWorkers = count
	}
}

// SetBatchSize overrides the page size of the user id walk.
func (s *ReconciliationService) SetBatchSize(size int) {
	if size > 0 {
		s.batchSize = size
	}
}

// RecomputeFromLedger folds a user's full ledger history into a fresh
// aggregate. It never writes; compare the result with the stored row.
func RecomputeFromLedger(userID string, entries []ledger.Entry) stats.Statistics {
	snapshot := stats.Statistics{UserID: userID}
	for _, entry := range entries {
		snapshot = snapshot.Apply(entry.Delta)
	}
	return snapshot
}

// ReconcileUser replays one user's ledger, reports drift, and unless dryRun is
// set, overwrites the stored aggregate and records any missing unlocks.
func (s *ReconciliationService) ReconcileUser(ctx context.Context, userID string, dryRun bool) (UserDriftReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.ReconcileUser")
	defer span.End()

	if userID == "" {
		return UserDriftReport{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	entries, err := s.ledgerRepo.ListByUser(ctx, userID)
	if err != nil {
		return UserDriftReport{}, fmt.Errorf("list ledger entries user=%s: %w", userID, err)
	}

	recomputed := RecomputeFromLedger(userID, entries)
	stored, found, err := s.statsRepo.GetByUser(ctx, userID)
	if err != nil {
		return UserDriftReport{}, fmt.Errorf("get stored statistics user=%s: %w", userID, err)
	}
	if !found {
		stored = stats.Statistics{UserID: userID}
	}

	report := UserDriftReport{UserID: userID, Entries: len(entries)}
	report.DriftedFields = driftedFields(stored, recomputed)
	report.Drifted = len(report.DriftedFields) > 0

	previously, err := s.unlockRepo.ListIDsByUser(ctx, userID)
	if err != nil {
		return UserDriftReport{}, fmt.Errorf("list unlocks user=%s: %w", userID, err)
	}
	check := milestone.CheckAll(s.catalog, recomputed, previously)
	report.MissingUnlocks = check.NewUnlockIDs

	if dryRun || (!report.Drifted && len(report.MissingUnlocks) == 0) {
		return report, nil
	}

	now := s.now().UTC()
	if report.Drifted {
		recomputed.UpdatedAt = now
		if err := s.statsRepo.Replace(ctx, recomputed); err != nil {
			return UserDriftReport{}, fmt.Errorf("replace statistics user=%s: %w", userID, err)
		}
	}
	for _, milestoneID := range report.MissingUnlocks {
		if err := s.unlockRepo.Record(ctx, milestone.Unlock{
			UserID:      userID,
			MilestoneID: milestoneID,
			Count:       1,
			UnlockedAt:  now,
		}); err != nil {
			return UserDriftReport{}, fmt.Errorf("record missing unlock user=%s id=%s: %w", userID, milestoneID, err)
		}
	}
	report.Corrected = true

	s.logger.InfoContext(ctx, "user aggregate reconciled",
		"user_id", userID,
		"drifted_fields", report.DriftedFields,
		"missing_unlocks", len(report.MissingUnlocks),
	)
	return report, nil
}

// Reconcile walks users in batches and replays each one on a bounded worker
// pool. A per-user failure is counted and logged, never fatal to the run.
func (s *ReconciliationService) Reconcile(ctx context.Context, input ReconcileInput) (ReconcileResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconciliationService.Reconcile")
	defer span.End()

	userIDs := input.UserIDs
	if len(userIDs) == 0 {
		var err error
		userIDs, err = s.listAllUserIDs(ctx)
		if err != nil {
			return ReconcileResult{}, err
		}
	}

	maxWorkers := input.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = s.maxWorkers
	}
	workerCount := normalizeReconcileWorkerCount(maxWorkers, len(userIDs))
	result := ReconcileResult{
		WorkerCount: workerCount,
		DryRun:      input.DryRun,
		Reports:     make([]UserDriftReport, 0, len(userIDs)),
	}
	if len(userIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create reconcile worker pool: %w", err)
	}
	defer pool.Release()

	reports := make(chan UserDriftReport, len(userIDs))
	var driftedCount atomic.Int32
	var correctedCount atomic.Int32
	var failedCount atomic.Int32

	var submitErr error
	var workers sync.WaitGroup
	for _, userID := range userIDs {
		userID := userID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			report, rerr := s.ReconcileUser(ctx, userID, input.DryRun)
			if rerr != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "reconcile user failed", "user_id", userID, "error", rerr)
				return
			}
			if report.Drifted || len(report.MissingUnlocks) > 0 {
				driftedCount.Add(1)
			}
			if report.Corrected {
				correctedCount.Add(1)
			}
			reports <- report
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit user to reconcile pool: %w", err)
			break
		}
	}

	// In-flight users finish before the error return so no writes trail it.
	workers.Wait()
	close(reports)
	if submitErr != nil {
		return ReconcileResult{}, submitErr
	}

	for report := range reports {
		result.Reports = append(result.Reports, report)
	}
	sort.SliceStable(result.Reports, func(i, j int) bool {
		return result.Reports[i].UserID < result.Reports[j].UserID
	})

	result.UsersChecked = len(result.Reports)
	result.UsersDrifted = int(driftedCount.Load())
	result.UsersCorrected = int(correctedCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *ReconciliationService) listAllUserIDs(ctx context.Context) ([]string, error) {
	out := make([]string, 0, s.batchSize)
	cursor := ""
	for {
		page, err := s.statsRepo.ListUserIDs(ctx, cursor, s.batchSize)
		if err != nil {
			return nil, fmt.Errorf("list user ids after=%s: %w", cursor, err)
		}
		if len(page) == 0 {
			return out, nil
		}
		out = append(out, page...)
		cursor = page[len(page)-1]
		if len(page) < s.batchSize {
			return out, nil
		}
	}
}

func driftedFields(stored, recomputed stats.Statistics) []string {
	var fields []string
	add := func(name string, a, b int) {
		if a != b {
			fields = append(fields, name)
		}
	}
	add("games", stored.Games, recomputed.Games)
	add("goals", stored.Goals, recomputed.Goals)
	add("assists", stored.Assists, recomputed.Assists)
	add("saves", stored.Saves, recomputed.Saves)
	add("wins", stored.Wins, recomputed.Wins)
	add("draws", stored.Draws, recomputed.Draws)
	add("losses", stored.Losses, recomputed.Losses)
	add("mvp_count", stored.MvpCount, recomputed.MvpCount)
	add("best_keeper_count", stored.BestKeeperCount, recomputed.BestKeeperCount)
	add("worst_count", stored.WorstCount, recomputed.WorstCount)
	add("clean_sheets", stored.CleanSheets, recomputed.CleanSheets)
	add("yellow_cards", stored.YellowCards, recomputed.YellowCards)
	add("red_cards", stored.RedCards, recomputed.RedCards)
	add("total_xp", stored.TotalXp, recomputed.TotalXp)
	add("best_streak", stored.BestStreak, recomputed.BestStreak)
	return fields
}

func normalizeReconcileWorkerCount(value int, userCount int) int {
	if userCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = defaultReconcileWorkers
	}
	if value > maxReconcileWorkers {
		value = maxReconcileWorkers
	}
	if value > userCount {
		value = userCount
	}
	return value
}
