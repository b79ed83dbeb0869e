package main

import (
	"errors"
	"os"

	"github.com/Garsondee/Board-Sense/internal/config"
	"github.com/Garsondee/Board-Sense/internal/game"
	"github.com/Garsondee/Board-Sense/internal/history"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("game", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		config.NewLogger(config.LogConfig{Level: "info", Pretty: true}, os.Stderr).
			Fatal().Err(err).Msg("load config")
	}
	log := config.NewLogger(cfg.Log, os.Stderr)

	opts := game.Options{
		SquareSize:  cfg.Display.SquareSize,
		Title:       cfg.Display.Title,
		AssetsDir:   cfg.Assets.Dir,
		ThinkBudget: cfg.CPU.ThinkBudget,
		Mode:        match.Mode(cfg.Game.Mode),
		Rating:      cfg.Game.Rating,
		Seed:        cfg.Game.Seed,
		Log:         log,
	}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.History.Path).Msg("open history")
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("close history")
			}
		}()
		opts.Recorder = store
	}

	g, err := game.New(opts)
	if err != nil {
		log.Error().Err(err).Msg("build game")
		return
	}

	side := 8 * cfg.Display.SquareSize
	ebiten.SetWindowSize(side, side)
	ebiten.SetTPS(cfg.Display.TPS)
	ebiten.SetWindowClosingHandled(true)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error().Err(err).Msg("run game")
		return
	}
	log.Info().Msg("window closed")
}
