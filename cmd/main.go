package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"recipe-website/cmd/config"
	migration "recipe-website/cmd/database/migrate"
	"recipe-website/internal/logging"
	"recipe-website/internal/utils"
)

func main() {
	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
	})

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("error connecting to database")
	}
	if err := migration.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("error migrating database")
	}
	if err := migration.Seed(db); err != nil {
		logging.Fatal().Err(err).Msg("error seeding database")
	}

	app, err := config.NewApp(db)
	if err != nil {
		logging.Fatal().Err(err).Msg("error building app")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logging.Error().Err(err).Msg("error during shutdown")
		}
	}()

	port := utils.GetConfig("PORT")
	logging.Info().Str("port", port).Msg("server starting")
	if err := app.Listen(":" + port); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
