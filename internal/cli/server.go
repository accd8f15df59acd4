package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizhub/internal/app"
	"quizhub/internal/config"
	"quizhub/internal/domain"
	"quizhub/internal/infra/memory"
	redisinfra "quizhub/internal/infra/redis"
	transport "quizhub/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quizhub server",
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

	var collections app.CollectionStore
	if redisClient != nil {
		collections = redisinfra.NewCollectionStore(redisClient)
	} else {
		collections = memory.NewCollectionStore()
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 30*time.Second)
	catalog := app.NewCatalogService(memory.NewCatalogCache(collections, catalogTTL))
	results := app.NewResultService(collections)
	users := app.NewUserService(collections)

	var attempts app.AttemptStore
	if redisClient != nil {
		attemptTTL := config.TTLDuration(cfg.Redis.TTL, time.Hour)
		attempts = redisinfra.NewAttemptStore(redisClient, attemptTTL)
	} else {
		attempts = memory.NewAttemptStore()
	}
	sessions := app.NewSessionService(catalog, attempts, results)

	if err := users.Bootstrap(ctx); err != nil {
		return err
	}
	if err := seedCatalogIfEmpty(ctx, catalog); err != nil {
		return err
	}

	handler := transport.NewHandler(catalog, results, users)
	wsHandler := transport.NewWSHandler(sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)
	mux.HandleFunc("/ws/attempt", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizhub on :%s", finalPort)
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

// seedCatalogIfEmpty publishes the starter quizzes so a fresh install has
// something to browse.
func seedCatalogIfEmpty(ctx context.Context, catalog *app.CatalogService) error {
	existing, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	imported, err := catalog.Import(ctx, starterQuizzes())
	if err != nil {
		return err
	}
	if imported > 0 {
		log.Printf("seeded catalog with %d starter quizzes", imported)
	}
	return nil
}

func starterQuizzes() []domain.Quiz {
	return []domain.Quiz{
		{
			ID:                "1",
			Title:             "General Knowledge Quiz",
			Description:       "Test your knowledge across various subjects including science, history, and geography.",
			CreatedBy:         "admin",
			CreatedByUsername: "Quiz Master",
			IsPublic:          true,
			CreatedAt:         time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Questions: []domain.Question{
				{
					ID:                 "1",
					QuestionText:       "What is the capital of France?",
					Options:            []string{"London", "Paris", "Berlin", "Madrid"},
					CorrectAnswerIndex: 1,
				},
				{
					ID:                 "2",
					QuestionText:       "Which planet is known as the Red Planet?",
					Options:            []string{"Venus", "Mars", "Jupiter", "Saturn"},
					CorrectAnswerIndex: 1,
				},
				{
					ID:                 "3",
					QuestionText:       "Who painted the Mona Lisa?",
					Options:            []string{"Van Gogh", "Picasso", "Leonardo da Vinci", "Michelangelo"},
					CorrectAnswerIndex: 2,
				},
			},
		},
		{
			ID:                "2",
			Title:             "Science & Technology",
			Description:       "Explore the fascinating world of science and modern technology.",
			CreatedBy:         "admin",
			CreatedByUsername: "Science Guru",
			IsPublic:          true,
			CreatedAt:         time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
			Questions: []domain.Question{
				{
					ID:                 "1",
					QuestionText:       "What does DNA stand for?",
					Options:            []string{"Deoxyribonucleic Acid", "Dynamic Nuclear Analysis", "Digital Network Access", "Data Network Architecture"},
					CorrectAnswerIndex: 0,
				},
				{
					ID:                 "2",
					QuestionText:       "Which programming language is known for web development?",
					Options:            []string{"Python", "JavaScript", "C++", "Java"},
					CorrectAnswerIndex: 1,
				},
			},
		},
	}
}
