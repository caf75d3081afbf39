package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainee-quiz-service/internal/app"
	"trainee-quiz-service/internal/config"
	"trainee-quiz-service/internal/domain"
	"trainee-quiz-service/internal/infra/memory"
	pgloader "trainee-quiz-service/internal/infra/postgres"
	redisinfra "trainee-quiz-service/internal/infra/redis"
	transport "trainee-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	defaults := domain.ShuffleSettings{
		Questions: cfg.Quiz.ShuffleQuestions,
		Options:   cfg.Quiz.ShuffleOptions,
	}
	service := app.NewQuizService(store, quizRepo, app.WithDefaultSettings(defaults))
	wsHandler := transport.NewWSHandler(service)
	quizHandler := transport.NewQuizHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/quiz", quizHandler.ServeQuiz)
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides demo content for redis/postgres-less runs.
func sampleQuizzes() map[string]domain.QuizRecord {
	return map[string]domain.QuizRecord{
		"quiz-1": {
			Quiz: domain.Quiz{
				ID:    "quiz-1",
				Title: "Onboarding check",
				Questions: []domain.Question{
					{
						ID:            "q1",
						Type:          domain.MultipleChoice,
						Prompt:        "What is 2 + 2?",
						Options:       []string{"3", "4", "5"},
						CorrectAnswer: "1",
						Points:        1,
					},
					{
						ID:            "q2",
						Type:          domain.TrueFalse,
						Prompt:        "The sky is green.",
						Options:       []string{"true", "false"},
						CorrectAnswer: "1",
						Points:        1,
					},
					{
						ID:            "q3",
						Type:          domain.ShortAnswer,
						Prompt:        "Name the capital of France.",
						CorrectAnswer: "Paris",
						Points:        2,
					},
				},
			},
			Settings: &domain.ShuffleSettings{Questions: true, Options: true},
		},
	}
}
