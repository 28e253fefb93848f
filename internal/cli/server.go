package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/config"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/memory"
	"vocab-quiz-service/internal/infra/postgres"
	redisinfra "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/quiz"
	transport "vocab-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	var seedFile string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, seedFile)
		},
	}
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "YAML vocabulary loaded on startup")
	return cmd
}

// components holds the wired stores and services of one process.
type components struct {
	vocabStore app.VocabularyStore
	categories categoryStore
	cache      app.VocabularyCache
	results    app.ResultStore
	daily      app.DailyQuizStore
	sessions   app.SessionRepository

	quiz       *app.QuizService
	vocabulary *app.VocabularyService
	dailyQuiz  *app.DailyQuizService

	closers []func()
}

// categoryStore lists categories and accepts new ones from seed files.
type categoryStore interface {
	app.CategoryStore
	UpsertCategory(ctx context.Context, c domain.Category) error
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// buildComponents picks Postgres/Redis backed stores when configured and
// falls back to in-memory ones otherwise.
func buildComponents(ctx context.Context, cfg config.Config, logger *slog.Logger) (*components, error) {
	c := &components{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c.closers = append(c.closers, func() { _ = redisClient.Close() })
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, pool.Close)
		db := postgres.OpenBun(cfg.Postgres.URL)
		c.closers = append(c.closers, func() { _ = db.Close() })

		vocab := postgres.NewVocabularyStore(pool)
		c.vocabStore, c.categories = vocab, vocab
		c.results = postgres.NewResultStore(db)
		c.daily = postgres.NewDailyQuizStore(db)
	} else {
		logger.WarnContext(ctx, "postgres not configured, using in-memory stores")
		vocab := memory.NewVocabularyStore(nil)
		c.vocabStore, c.categories = vocab, vocab
		c.results = memory.NewResultStore()
		c.daily = memory.NewDailyQuizStore()
	}

	if redisClient != nil {
		c.cache = redisinfra.NewVocabularyCache(redisClient, c.vocabStore, cfg.Quiz.VocabularyTTL, logger)
		c.sessions = redisinfra.NewSessionStore(redisClient, cfg.Redis.TTL)
	} else {
		c.cache = memory.NewVocabularyCache(c.vocabStore, cfg.Quiz.VocabularyTTL)
		c.sessions = memory.NewSessionStore()
	}

	norm := quiz.NewNormalizer(cfg.Quiz.Folds())
	c.dailyQuiz = app.NewDailyQuizService(c.daily, c.vocabStore, c.results, cfg.Quiz.DailyWordCount)
	c.vocabulary = app.NewVocabularyService(c.vocabStore, c.categories, c.cache, norm)
	c.quiz = app.NewQuizService(c.sessions, c.cache, c.results, c.dailyQuiz, app.Options{
		DurationSeconds: cfg.Quiz.DurationSeconds,
		Scoring: quiz.ScoringPolicy{
			Correct: cfg.Quiz.Scoring.Correct,
			Wrong:   cfg.Quiz.Scoring.Wrong,
			Empty:   cfg.Quiz.Scoring.Empty,
		},
		Normalizer: norm,
		Builder:    quiz.NewBuilder(norm, nil, quiz.AlphabetMode(cfg.Quiz.AlphabetMode)),
		Logger:     logger,
	})
	return c, nil
}

func runServer(ctx context.Context, configPath, portFlag, seedFile string) error {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}

	c, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if seedFile != "" {
		if err := seedFromFile(ctx, seedFile, c, "", logger); err != nil {
			return err
		}
	}

	router := transport.NewRouter(
		transport.NewWSHandler(c.quiz, logger),
		transport.NewRESTHandler(c.quiz, c.vocabulary, c.dailyQuiz, logger),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting quiz service", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
