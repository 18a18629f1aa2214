// Command importcsv loads the CSV fixture set into the database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yamdb/internal/data/repository"
	"yamdb/internal/importer"
	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	dir := pflag.StringP("dir", "d", "static/data", "directory holding the CSV files")
	envFile := pflag.String("env", ".env", "optional env file with database settings")
	migrate := pflag.Bool("migrate", true, "apply pending migrations before importing")
	pflag.Parse()

	config, err := utils.LoadConfigFrom(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if *migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	im := importer.New(repository.NewRepository(db, logger), logger)
	reports, err := im.Run(ctx, os.DirFS(*dir))
	for _, r := range reports {
		if r.Missing {
			fmt.Printf("%-16s not found\n", r.File)
			continue
		}
		fmt.Printf("%-16s imported=%d skipped=%d failed=%d\n", r.File, r.Imported, r.Skipped, r.Failed)
	}
	if err != nil {
		logger.Fatal("Import aborted", zap.Error(err))
	}
}
