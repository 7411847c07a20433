package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/codebreaker/internal/config"
	"github.com/robalobadob/codebreaker/internal/console"
	"github.com/robalobadob/codebreaker/internal/game"
	"github.com/robalobadob/codebreaker/internal/pools"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	pool := flag.String("pool", cfg.DefaultPool, "pool name or literal symbols")
	length := flag.Int("length", cfg.DefaultLength, "code length")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	if err := pools.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load pools")
	}
	symbols := pools.Resolve(*pool)
	if err := game.ValidateConfig(symbols, *length); err != nil {
		log.Fatal().Err(err).Str("pool", symbols).Int("length", *length).Msg("bad game settings")
	}

	g := game.New(symbols, *length, rand.New(rand.NewSource(*seed)))
	n, solved := console.Play(os.Stdin, os.Stdout, g)
	log.Debug().Int("guesses", n).Bool("solved", solved).Msg("session over")
}
