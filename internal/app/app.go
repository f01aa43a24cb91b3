package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/config"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/ledger"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/match"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/milestone"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/season"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/stats"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/streak"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/domain/xp"
	cachedrepo "github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/cache"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/memory"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/infrastructure/repository/postgres"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/interfaces/httpapi"
	basecache "github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/cache"
	idgen "github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/id"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/platform/logging"
	"github.com/TechFernandesLTDA/futeba-dos-parcas-sub007/internal/usecase"
)

type repositories struct {
	matchRepo    match.Repository
	settingsRepo xp.SettingsRepository
	statsRepo    stats.Repository
	ledgerRepo   ledger.Repository
	streakRepo   streak.Repository
	unlockRepo   milestone.UnlockRepository
	seasonRepo   season.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	catalog := milestone.NewCatalog()
	levels := xp.NewLevelTable()

	processingSvc := usecase.NewGameProcessingService(
		repos.matchRepo,
		repos.settingsRepo,
		repos.statsRepo,
		repos.ledgerRepo,
		repos.streakRepo,
		repos.unlockRepo,
		repos.seasonRepo,
		catalog,
		levels,
		idgen.NewUUIDGenerator(),
		logger,
	)
	processingSvc.SetStreakPolicy(streak.Policy{MaxGapDays: cfg.StreakMaxGapDays})
	processingSvc.SetMaxWorkers(cfg.ProcessingWorkers)

	reconciliationSvc := usecase.NewReconciliationService(
		repos.ledgerRepo,
		repos.statsRepo,
		repos.unlockRepo,
		catalog,
		logger,
	)
	reconciliationSvc.SetMaxWorkers(cfg.ReconcileWorkers)
	reconciliationSvc.SetBatchSize(cfg.ReconcileBatchSize)
	progressSvc := usecase.NewProgressService(
		repos.statsRepo,
		repos.unlockRepo,
		repos.ledgerRepo,
		repos.streakRepo,
		catalog,
		levels,
	)
	seasonSvc := usecase.NewSeasonService(repos.seasonRepo)
	settingsSvc := usecase.NewSettingsService(repos.settingsRepo, levels, logger)

	handler := httpapi.NewHandler(
		processingSvc,
		reconciliationSvc,
		progressSvc,
		seasonSvc,
		settingsSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the persistence backend: postgres when DB_URL is
// set, seeded in-memory repositories otherwise.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "group_id", "grupo-quarta")
		return repositories{
			matchRepo:    memory.NewMatchRepository(memory.SeedMatches(), memory.SeedConfirmations()),
			settingsRepo: memory.NewSettingsRepository(),
			statsRepo:    memory.NewStatsRepository(),
			ledgerRepo:   memory.NewLedgerRepository(),
			streakRepo:   memory.NewStreakRepository(),
			unlockRepo:   memory.NewUnlockRepository(),
			seasonRepo:   memory.NewSeasonRepository(memory.SeedSeasons()),
		}, nil
	}

	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryResult))
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL))

	store := basecache.NewStore(cfg.CacheTTL)

	return repositories{
		matchRepo:    postgres.NewMatchRepository(db),
		settingsRepo: cachedrepo.NewSettingsRepository(postgres.NewSettingsRepository(db), store),
		statsRepo:    postgres.NewStatsRepository(db),
		ledgerRepo:   postgres.NewLedgerRepository(db),
		streakRepo:   postgres.NewStreakRepository(db),
		unlockRepo:   postgres.NewUnlockRepository(db),
		seasonRepo:   cachedrepo.NewSeasonRepository(postgres.NewSeasonRepository(db), store),
	}, nil
}
