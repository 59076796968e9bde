package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Machurui/longship/api"
	"github.com/Machurui/longship/db"
	"github.com/Machurui/longship/internal/config"
	"github.com/Machurui/longship/internal/logging"
	mb "github.com/Machurui/longship/models/battleship"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	log, err := logging.New(cfg.Stage)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	opts := []api.Option{api.WithPort(cfg.Port), api.WithStage(cfg.Stage)}

	if cfg.DatabaseURL != "" {
		database := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationsDir, log)
		defer database.Close()
		opts = append(opts, api.WithDb(database))
	} else {
		log.Warn("DATABASE_URL is not set; analytics are disabled")
	}

	if cfg.RulesFile != "" {
		rules, err := mb.LoadRules(cfg.RulesFile)
		if err != nil {
			log.Fatal("failed to load rules", zap.String("file", cfg.RulesFile), zap.Error(err))
		}
		opts = append(opts, api.WithRules(rules))
	}

	server, err := api.NewServer(log, opts...)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
