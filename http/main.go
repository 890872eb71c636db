package main

import (
	"log"

	"github.com/draftdeck/design-service/config"
	"github.com/draftdeck/design-service/http/controller"
	routes "github.com/draftdeck/design-service/http/route"
	infraPkg "github.com/draftdeck/design-service/infra"
	"github.com/draftdeck/design-service/repository"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :" + cfg.EnvConfig.Port)
	if err := router.Run(":" + cfg.EnvConfig.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
