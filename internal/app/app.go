package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/jersey-metadata/external/jobqueue"
	"github.com/riskibarqy/jersey-metadata/external/transfermarkt"
	"github.com/riskibarqy/jersey-metadata/internal/config"
	"github.com/riskibarqy/jersey-metadata/internal/domain/club"
	"github.com/riskibarqy/jersey-metadata/internal/domain/competition"
	"github.com/riskibarqy/jersey-metadata/internal/domain/contract"
	"github.com/riskibarqy/jersey-metadata/internal/domain/player"
	"github.com/riskibarqy/jersey-metadata/internal/domain/season"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/aliasfile"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/jersey-metadata/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/jersey-metadata/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/jersey-metadata/internal/platform/cache"
	"github.com/riskibarqy/jersey-metadata/internal/platform/logging"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

type repositories struct {
	competitions competition.Repository
	seasons      season.Repository
	clubs        club.Repository
	players      player.Repository
	contracts    contract.Repository
}

// Services is the wired use case layer shared by the API server and the CLI.
type Services struct {
	SeasonResolver *usecase.SeasonResolver
	ClubResolver   *usecase.ClubResolver
	Matching       *usecase.MatchingService
	Backfill       *usecase.BackfillService
	AutoLink       *usecase.AutoLinkService
	Seed           *usecase.SeedService
	Jobs           *usecase.BackfillJobRunner

	closers []func(context.Context) error
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}
	svc := &Services{}

	repos, err := svc.openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	aliases, err := aliasfile.Load(cfg.ClubAliasFile)
	if err != nil {
		_ = svc.Close(ctx)
		return nil, fmt.Errorf("load club aliases: %w", err)
	}
	logger.Info("club aliases loaded", "count", aliases.Len(), "file", cfg.ClubAliasFile)

	provider := transfermarkt.NewClient(transfermarkt.ClientConfig{
		BaseURL:        cfg.UpstreamBaseURL,
		Token:          cfg.UpstreamToken,
		Timeout:        cfg.UpstreamTimeout,
		Retry:          cfg.UpstreamRetry,
		Logger:         logger,
		CircuitBreaker: cfg.UpstreamCircuit,
	})
	dispatcher, err := jobqueue.NewDispatcher(jobqueue.DispatcherConfig{
		BaseURL:        cfg.BackfillWorkerURL,
		Token:          cfg.BackfillWorkerToken,
		Timeout:        cfg.BackfillDispatchTimeout,
		Retry:          cfg.BackfillDispatchRetry,
		CircuitBreaker: cfg.BackfillCircuit,
	}, logger)
	if err != nil {
		_ = svc.Close(ctx)
		return nil, fmt.Errorf("build backfill dispatcher: %w", err)
	}

	svc.SeasonResolver = usecase.NewSeasonResolver(repos.seasons)
	svc.ClubResolver = usecase.NewClubResolver(repos.clubs, aliases)
	svc.Matching = usecase.NewMatchingService(repos.contracts, repos.players, svc.SeasonResolver)
	svc.Backfill = usecase.NewBackfillService(repos.seasons, repos.clubs, repos.players, repos.contracts,
		provider, dispatcher, usecase.BackfillConfig{
			MinContracts:    cfg.BackfillMinContracts,
			MaxWorkers:      cfg.BackfillMaxWorkers,
			DispatchTimeout: cfg.BackfillDispatchTimeout,
		}, logger)
	svc.AutoLink = usecase.NewAutoLinkService(svc.ClubResolver, svc.SeasonResolver, svc.Matching, svc.Backfill, logger)
	svc.Seed = usecase.NewSeedService(repos.competitions, repos.seasons, repos.clubs, provider, svc.Backfill, logger)

	svc.Jobs, err = usecase.NewBackfillJobRunner(svc.Backfill, nil, usecase.BackfillJobConfig{
		Workers: cfg.BackfillJobWorkers,
		Timeout: cfg.BackfillJobTimeout,
	}, logger)
	if err != nil {
		_ = svc.Close(ctx)
		return nil, err
	}
	svc.closers = append([]func(context.Context) error{svc.Jobs.Shutdown}, svc.closers...)

	return svc, nil
}

func (s *Services) openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.Store {
	case config.StoreMemory:
		store, err := memory.NewSeededStore(ctx)
		if err != nil {
			return repositories{}, fmt.Errorf("seed memory store: %w", err)
		}
		repos = repositories{
			competitions: store.Competitions,
			seasons:      store.Seasons,
			clubs:        store.Clubs,
			players:      store.Players,
			contracts:    store.Contracts,
		}
		logger.Info("using in-memory reference store")
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		repos = repositories{
			competitions: postgres.NewCompetitionRepository(db),
			seasons:      postgres.NewSeasonRepository(db),
			clubs:        postgres.NewClubRepository(db),
			players:      postgres.NewPlayerRepository(db),
			contracts:    postgres.NewContractRepository(db),
		}
		logger.Info("using postgres reference store", "db", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		repos.seasons = cache.NewSeasonRepository(repos.seasons, basecache.NewStore[season.Season](cfg.CacheTTL))
	}
	return repos, nil
}

// Close drains background jobs before releasing the database.
func (s *Services) Close(ctx context.Context) error {
	var firstErr error
	for _, closeFn := range s.closers {
		if err := closeFn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func NewHTTPServer(cfg config.Config, svc *Services, logger *logging.Logger) (*http.Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("services are required")
	}

	handler := httpapi.NewHandler(svc.AutoLink, svc.Matching, svc.Backfill, svc.Jobs, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

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
