package main

import (
	"os"

	"github.com/Garsondee/Board-Sense/internal/config"
	"github.com/Garsondee/Board-Sense/internal/console"
	"github.com/Garsondee/Board-Sense/internal/history"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/chzyer/readline"
	"github.com/spf13/pflag"
)

func main() {
	fs := pflag.NewFlagSet("console", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		bootLog := config.NewLogger(config.LogConfig{Level: "info", Pretty: true}, os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := config.NewLogger(cfg.Log, os.Stderr)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".presenter_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init readline")
	}
	defer rl.Close()

	opts := console.Options{
		ThinkBudget: cfg.CPU.ThinkBudget,
		Rating:      cfg.Game.Rating,
		Mode:        match.Mode(cfg.Game.Mode),
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

	if err := console.New(rl, rl.Stdout(), opts).Run(); err != nil {
		log.Error().Err(err).Msg("console")
	}
}
