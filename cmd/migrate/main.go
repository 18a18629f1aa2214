// Command migrate applies or reverts the embedded schema migrations.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"yamdb/pkg/database"
	"yamdb/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	envFile := pflag.String("env", ".env", "optional env file with database settings")
	rollback := pflag.BoolP("rollback", "r", false, "revert the most recently applied migration")
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

	if *rollback {
		if err := database.RollbackLast(ctx, db); err != nil {
			logger.Fatal("Failed to roll back migration", zap.Error(err))
		}
		logger.Info("Last migration rolled back")
		return
	}

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	logger.Info("Migrations applied")
}
