package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"vineyard-quiz/internal/app"
	"vineyard-quiz/internal/config"
	"vineyard-quiz/internal/infra/gemini"
	"vineyard-quiz/internal/infra/memory"
	"vineyard-quiz/internal/infra/postgres"
	redisstore "vineyard-quiz/internal/infra/redis"
	"vineyard-quiz/internal/infra/sqlite"
	"vineyard-quiz/internal/questions"
	transport "vineyard-quiz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(flags *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

type reaper interface {
	RunReaper(ctx context.Context, retention, interval time.Duration)
}

// stack is every backend the server runs on, built from config.
type stack struct {
	store     app.SessionStore
	profiles  app.ProfileStore
	cache     app.ElaborationCache
	generator app.TextGenerator
	reaper    reaper
	closers   []func()
}

func (s *stack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func buildStack(ctx context.Context, cfg config.Config) (*stack, error) {
	st := &stack{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st.closers = append(st.closers, func() { _ = redisClient.Close() })
	}

	switch cfg.Store.Backend {
	case config.BackendRedis:
		st.store = redisstore.NewSessionStore(redisClient, cfg.Store.Namespace, config.TTLDuration(cfg.Redis.TTL, 24*time.Hour))
	case config.BackendPostgres:
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			st.Close()
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		pg := postgres.NewSessionStore(pool, cfg.Store.Namespace)
		st.store, st.reaper = pg, pg
	default:
		mem := memory.NewSessionStore()
		st.store, st.reaper = mem, mem
	}

	switch cfg.Profiles.Backend {
	case config.BackendRedis:
		st.profiles = redisstore.NewProfileStore(redisClient, cfg.Store.Namespace)
	case config.BackendSQLite:
		profiles, err := sqlite.NewProfileStore(cfg.Profiles.SQLitePath)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("open profiles: %w", err)
		}
		st.closers = append(st.closers, func() { _ = profiles.Close() })
		st.profiles = profiles
	default:
		st.profiles = memory.NewProfileStore()
	}

	elaborationTTL := config.TTLDuration(cfg.Elaboration.TTL, 24*time.Hour)
	if redisClient != nil {
		st.cache = redisstore.NewElaborationCache(redisClient, cfg.Store.Namespace, elaborationTTL)
	} else {
		st.cache = memory.NewElaborationCache(elaborationTTL)
	}

	if cfg.Generator.APIKey != "" {
		httpClient := &http.Client{Timeout: config.TTLDuration(cfg.Generator.Timeout, 30*time.Second)}
		st.generator = gemini.NewClient(httpClient, cfg.Generator.BaseURL, cfg.Generator.Model, cfg.Generator.APIKey)
	} else {
		log.Printf("no generator api key configured; question generation is disabled")
	}
	return st, nil
}

// newHandler wires the services over st and returns the routed API.
func newHandler(st *stack, cfg config.Config) http.Handler {
	supply := app.NewQuestionSupply(questions.Pool(), st.generator, st.cache)
	games := app.NewGameService(st.store, app.NewDirectory(st.store), supply)
	profiles := app.NewProfileService(st.profiles)
	api := transport.NewAPI(games, profiles, st.store, transport.Options{
		Prefix:  cfg.Server.Prefix,
		Verbose: cfg.Server.Verbose,
		Version: releaseVersion,
	})
	return api.Router()
}

func runServer(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if st.reaper != nil {
		retention := config.TTLDuration(cfg.Store.Retention, 0)
		go st.reaper.RunReaper(ctx, retention, config.TTLDuration(cfg.Store.ReapInterval, 10*time.Minute))
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Bind, cfg.Server.Port),
		Handler:           newHandler(st, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("starting vineyard quiz on %s (store: %s)", server.Addr, cfg.Store.Backend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Println("shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
