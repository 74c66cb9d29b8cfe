package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/contactbook-backend/internal/app"
	"github.com/yungbote/contactbook-backend/internal/seed"
)

var (
	seedFile string

	rootCmd = &cobra.Command{
		Use:           "contactbook",
		Short:         "Contact directory API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE:  runMigrate,
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load contact fixtures from a YAML file",
		RunE:  runSeed,
	}
)

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "fixture file (defaults to SEED_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "contactbook: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("init app failed", "error", err)
		return err
	}
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)
	a.Start(gctx)
	g.Go(func() error {
		return a.Run(gctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server stopped", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	database, err := app.OpenDatabase(log, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()
	if err := database.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("migration complete", "driver", cfg.DBDriver)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(cmd.Context(), log)
	if err != nil {
		return err
	}
	defer a.Close()

	path := seedFile
	if path == "" {
		path = a.Cfg.SeedFile
	}
	fixtures, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	res, err := seed.Run(cmd.Context(), log, a.Services.Contact, fixtures)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %s: created=%d skipped=%d\n", path, res.Created, res.Skipped)
	return nil
}
