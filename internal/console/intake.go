package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Garsondee/Board-Sense/internal/match"
)

// ErrAborted is returned when input ends before a config is chosen.
var ErrAborted = errors.New("config intake aborted")

// LineReader is the part of *readline.Instance the console uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(string)
}

// Intake asks for mode and rating until both validate. An empty rating keeps
// defaultRating.
func Intake(in LineReader, out io.Writer, defaultRating int) (match.GameConfig, error) {
	var cfg match.GameConfig
	for {
		in.SetPrompt("mode [pvp/cpu]> ")
		line, err := in.Readline()
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrAborted, err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "1", "pvp":
			cfg.Mode = match.ModePvP
		case "2", "cpu":
			cfg.Mode = match.ModeCPU
		default:
			fmt.Fprintln(out, failure.Sprint("choose pvp or cpu"))
			continue
		}
		break
	}
	for {
		in.SetPrompt(fmt.Sprintf("rating [%d-%d, default %d]> ", match.MinRating, match.MaxRating, defaultRating))
		line, err := in.Readline()
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrAborted, err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			cfg.Rating = defaultRating
		} else {
			n, err := strconv.Atoi(line)
			if err != nil {
				fmt.Fprintln(out, failure.Sprint("rating must be a number"))
				continue
			}
			cfg.Rating = n
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(out, failure.Sprint(err.Error()))
			continue
		}
		return cfg, nil
	}
}
