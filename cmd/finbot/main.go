package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/finvik/finbot/core/cmd"
	coreconfig "github.com/finvik/finbot/core/config"
	"github.com/finvik/finbot/internal/app"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(cfg *coreconfig.Config) (corecmd.TelegramApp, error) {
			return app.New(cfg)
		},
	})
	if err != nil {
		log.Fatalf("finbot: %v", err)
	}
}
