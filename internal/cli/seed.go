package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizhub/internal/app"
	"quizhub/internal/config"
	"quizhub/internal/infra/memory"
	pgseed "quizhub/internal/infra/postgres"
	redisinfra "quizhub/internal/infra/redis"
)

// NewSeedCmd imports quizzes from the Postgres seed source into the catalog.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Import quizzes from Postgres into the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr not configured; seeding needs a persistent catalog")
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	quizzes, err := pgseed.NewQuizLoader(pool).LoadQuizzes(ctx)
	if err != nil {
		return err
	}

	// ttl 0 disables caching; a one-shot import wants the store directly.
	catalog := app.NewCatalogService(memory.NewCatalogCache(redisinfra.NewCollectionStore(redisClient), 0))
	imported, err := catalog.Import(ctx, quizzes)
	if err != nil {
		return err
	}
	log.Printf("imported %d quizzes (%d in seed source)", imported, len(quizzes))
	return nil
}
