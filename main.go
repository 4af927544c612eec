package main

import (
	"log"

	"github.com/cpclub/clubhub/config"
	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/routes"
	"github.com/cpclub/clubhub/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	config.InitDatabase(
		&models.Post{},
		&models.User{},
		&models.Event{},
		&models.Ranklist{},
		&models.RanklistEvent{},
		&models.RanklistMember{},
	)

	router := routes.SetupRouter()

	utils.Sugar.Infow("server starting", "port", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, router); err != nil {
		utils.Sugar.Fatalw("server exited", "error", err)
	}
}
