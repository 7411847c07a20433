package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/assets"
	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/database"
	"github.com/robalobadob/codebreaker/internal/httpserver"
	"github.com/robalobadob/codebreaker/internal/pools"
	"github.com/robalobadob/codebreaker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := pools.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load pools")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open db")
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, cfg)
	log.Info().Str("port", cfg.Port).Strs("pools", pools.Names()).Msg("starting codebreaker server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
