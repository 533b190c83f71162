package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/okian/rostersim/internal/adapters/http/api"
	"github.com/okian/rostersim/internal/adapters/report"
	"github.com/okian/rostersim/internal/adapters/repository"
	service "github.com/okian/rostersim/internal/app"
	"github.com/okian/rostersim/internal/config"
	"github.com/okian/rostersim/internal/domain/pool"
	"github.com/okian/rostersim/internal/domain/sampler"
	"github.com/okian/rostersim/internal/domain/tournament"
	"github.com/okian/rostersim/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, os.Stdout); err != nil {
		if service.Interrupted(err) {
			logger.Get().Info(ctx, "stopped by signal")
			return
		}
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the repository, pool, simulator and runner for cfg and executes
// one simulation, writing reports to out.
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := logger.Get()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	records, err := repository.Load(ctx, repo, cfg.Scope())
	if err != nil {
		return err
	}

	p := pool.New(
		pool.WithMinutesThreshold(cfg.MinutesThreshold),
		pool.WithFitWorkers(cfg.FitWorkers),
		pool.WithLogger(log.Named("pool")),
	)
	res, err := p.Ingest(ctx, records)
	if err != nil {
		return err
	}
	log.Info(ctx, "pool ready",
		logger.Int("records", len(records)),
		logger.Int("accepted", res.Accepted),
		logger.Int("excluded", len(res.Excluded)),
		logger.Int("fit_failures", res.FitFailure))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info(ctx, "random source seeded", logger.Int64("seed", seed))
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // simulation, replayable by seed

	sim, err := tournament.NewSimulator(p, sampler.New(rng, cfg.Table()), rng, cfg.RosterSize)
	if err != nil {
		return err
	}
	learner, err := tournament.NewLearner(cfg.Epsilon)
	if err != nil {
		return err
	}

	emitter := report.MultiEmitter{report.NewConsole(out)}
	if cfg.ReportLog {
		emitter = append(emitter, report.NewLog(log.Named("report")))
	}
	runner := service.New(p, sim, learner,
		service.WithIterations(cfg.Iterations),
		service.WithMaxTrials(cfg.MaxTrials),
		service.WithReportInterval(cfg.ReportInterval),
		service.WithTopN(cfg.TopN),
		service.WithVerbose(cfg.Verbose),
		service.WithEmitter(emitter),
		service.WithLogger(log.Named("runner")),
	)

	if cfg.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewServer(runner, cfg.MaxLeaderboardLimit).Router(),
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error(ctx, "server shutdown failed", logger.Error(err))
			}
		}()
	}

	sum, err := runner.Run(ctx)
	log.Info(ctx, "run summary",
		logger.String("run_id", sum.RunID),
		logger.Int64("seed", seed),
		logger.Int("trials", sum.Trials),
		logger.Int("reports", sum.Reports),
		logger.Int("correct", sum.Correct))
	return err
}

// openRepository returns the configured line source and its cleanup.
func openRepository(ctx context.Context, cfg *config.Config) (repository.StatRepository, func(), error) {
	switch cfg.Source {
	case config.SourcePostgres:
		repo, err := repository.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", repository.ErrDataUnavailable, err)
		}
		if err := repo.Ping(ctx); err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("%w: ping: %w", repository.ErrDataUnavailable, err)
		}
		return repo, repo.Close, nil
	case config.SourceSynthetic:
		leagueSeed := cfg.Seed
		if leagueSeed == 0 {
			leagueSeed = 1
		}
		repo := repository.NewSynthetic(
			repository.WithSeed(leagueSeed),
			repository.WithAthletes(cfg.SyntheticAthletes),
			repository.WithGames(cfg.SyntheticGames),
		)
		return repo, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: source %q", config.ErrInvalidConfig, cfg.Source)
	}
}
