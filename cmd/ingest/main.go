// Command ingest is the Volleydle roster ingestion CLI.
//
// Usage:
//
//	volleydle-ingest schema
//	volleydle-ingest seed --file rosters/men.json
//	volleydle-ingest seed --file rosters/women.json --sex F
//	volleydle-ingest daily --mode women --day 2026-08-29
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/volleydle/volleydle-data/internal/config"
	"github.com/volleydle/volleydle-data/internal/dayclock"
	"github.com/volleydle/volleydle-data/internal/db"
	"github.com/volleydle/volleydle-data/internal/game"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "volleydle-ingest",
		Short: "Volleydle roster ingestion CLI",
	}

	root.AddCommand(schemaCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(dailyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// schema command
// --------------------------------------------------------------------------

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the players table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := game.EnsureSchema(ctx, pool.Pool); err != nil {
					return fmt.Errorf("ensure schema: %w", err)
				}
				logger.Info("Schema ready")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	var (
		file string
		sex  string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed players from a JSON roster file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := game.EnsureSchema(ctx, pool.Pool); err != nil {
					return fmt.Errorf("ensure schema: %w", err)
				}

				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read roster file: %w", err)
				}
				var players []game.Player
				if err := json.Unmarshal(data, &players); err != nil {
					return fmt.Errorf("parse roster file: %w", err)
				}

				start := time.Now()
				var upserted, failed int
				for _, p := range players {
					if sex != "" {
						p.Sex = sex
					}
					if p.Name == "" || p.Sex == "" {
						logger.Warn("Skipping player without name or sex", "name", p.Name)
						failed++
						continue
					}
					if err := game.UpsertPlayer(ctx, pool.Pool, p); err != nil {
						logger.Error("Upsert failed", "player", p.Name, "error", err)
						failed++
						continue
					}
					upserted++
				}
				logger.Info("Seed finished",
					"file", file,
					"upserted", upserted,
					"failed", failed,
					"duration", time.Since(start).Round(time.Millisecond))
				if failed > 0 {
					return fmt.Errorf("%d players failed to seed", failed)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON array of players")
	cmd.Flags().StringVar(&sex, "sex", "", "Override sex for every player in the file (M or F)")
	return cmd
}

// --------------------------------------------------------------------------
// daily command
// --------------------------------------------------------------------------

func dailyCmd() *cobra.Command {
	var (
		mode string
		day  string
	)
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the secret player for a day (today by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				m := game.ParseMode(mode)
				d := day
				if d == "" {
					d = dayclock.Today()
				} else if _, err := time.Parse(dayclock.Layout, d); err != nil {
					return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
				}

				svc := game.NewService(pool.Pool, logger)
				p, err := svc.PlayerOfTheDayOn(ctx, d, m)
				if err != nil {
					return fmt.Errorf("pick daily player: %w", err)
				}
				logger.Info("Daily player",
					"day", d, "mode", m,
					"name", p.Name, "team", p.TeamName, "nationality", p.Nationality)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "men", "Mode (men or women)")
	cmd.Flags().StringVar(&day, "day", "", "Day in YYYY-MM-DD (default today)")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runWithDB handles config loading, DB connection, and context cancellation.
func runWithDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
