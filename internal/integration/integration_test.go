package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun/migrate"
	"vocab-quiz-service/internal/app"
	"vocab-quiz-service/internal/domain"
	"vocab-quiz-service/internal/infra/postgres"
	pgmigrations "vocab-quiz-service/internal/infra/postgres/migrations"
	infraredis "vocab-quiz-service/internal/infra/redis"
	"vocab-quiz-service/internal/quiz"
)

func TestQuizEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateSchema(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()
	db := postgres.OpenBun(pgURL)
	defer db.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	vocabStore := postgres.NewVocabularyStore(pool)
	results := postgres.NewResultStore(db)
	cache := infraredis.NewVocabularyCache(redisClient, vocabStore, 5*time.Minute, nil)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)

	if err := vocabStore.UpsertCategory(ctx, domain.Category{ID: "E", Name: "E"}); err != nil {
		t.Fatalf("upsert category: %v", err)
	}

	norm := quiz.NewNormalizer(nil)
	vocab := app.NewVocabularyService(vocabStore, vocabStore, cache, norm)
	for _, pair := range [][2]string{{"apple", "elma"}, {"ant", "karınca"}} {
		if _, added, err := vocab.AddWord(ctx, "u1", pair[0], pair[1]); err != nil || !added {
			t.Fatalf("add word %s: added=%v err=%v", pair[0], added, err)
		}
	}
	word, added, err := vocab.AddWord(ctx, "u1", "APPLE", "Elma")
	if err != nil || added {
		t.Fatalf("expected existing word, got added=%v err=%v", added, err)
	}
	if word.TrCategoryID != "E" {
		t.Fatalf("expected tr category E, got %q", word.TrCategoryID)
	}

	daily := app.NewDailyQuizService(postgres.NewDailyQuizStore(db), vocabStore, results, 10)
	service := app.NewQuizService(sessions, cache, results, daily, app.Options{Normalizer: norm})

	session, err := service.StartSession(ctx, app.StartRequest{UserID: "u1", Direction: domain.DirectionEngTr})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := quiz.Letters(session.Questions()); len(got) != 2 || got[0] != "E" || got[1] != "K" {
		t.Fatalf("expected letters [E K], got %v", got)
	}
	if out, _, err := service.SubmitAnswer(ctx, "u1", "elma"); err != nil || out.Status != domain.StatusCorrect {
		t.Fatalf("submit: %+v %v", out, err)
	}

	rec, err := service.Finish(ctx, "u1", quiz.ReasonExplicit)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !rec.AggregateUpdated || rec.Result.FinalScore != 13 {
		t.Fatalf("unexpected recorded result %+v", rec)
	}

	stored, err := results.GetResult(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if stored.CorrectCount != 1 || stored.EmptyCount != 1 || len(stored.Answers) != 2 {
		t.Fatalf("unexpected stored result %+v", stored)
	}
	score, err := results.AggregateScore(ctx, "u1")
	if err != nil || score != 13 {
		t.Fatalf("expected aggregate 13, got %d %v", score, err)
	}

	first, err := daily.Today(ctx)
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	again, err := postgres.NewDailyQuizStore(db).CreateDailyQuiz(ctx, domain.DailyQuiz{Date: first.Date, Words: []domain.Word{}})
	if err != nil {
		t.Fatalf("create daily again: %v", err)
	}
	if len(again.Words) != len(first.Words) {
		t.Fatalf("expected the stored daily quiz to win, got %d words", len(again.Words))
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateSchema(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	db := postgres.OpenBun(dsn)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
