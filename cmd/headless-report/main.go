package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

type reportConfig struct {
	runs     int
	turns    int
	seedBase int64
	seedStep int64
	mode     string
	budget   time.Duration
	operator string
	verbose  bool
}

type runStats struct {
	runIndex int
	seed     int64

	whiteMoves int
	blackMoves int
	overwrites int
	ownLosses  int
	kingsTaken int
	engineIdle int
	rejections map[match.RejectReason]int

	lockedOut   bool
	lockoutTick int

	firstOverwriteTick int

	whiteLeft int
	blackLeft int
	finalFEN  string
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	note    = color.New(color.FgYellow)
)

func main() {
	var cfg reportConfig
	fs := pflag.NewFlagSet("headless-report", pflag.ExitOnError)
	fs.IntVar(&cfg.runs, "runs", 5, "number of headless matches")
	fs.IntVar(&cfg.turns, "turns", 40, "turns per match")
	fs.Int64Var(&cfg.seedBase, "seed-base", 42, "base RNG seed for run 1")
	fs.Int64Var(&cfg.seedStep, "seed-step", 1, "seed increment between runs")
	fs.StringVar(&cfg.mode, "mode", "cpu", "pvp or cpu")
	fs.DurationVar(&cfg.budget, "budget", match.DefaultThinkBudget, "automated side thinking budget")
	fs.StringVar(&cfg.operator, "operator", "sensible", "sensible (always selects own occupants) or random")
	fs.BoolVar(&cfg.verbose, "verbose", false, "dump each match log")
	_ = fs.Parse(os.Args[1:])

	if err := report(os.Stdout, cfg); err != nil {
		fmt.Fprintln(os.Stderr, bad.Sprint("error: "+err.Error()))
		os.Exit(2)
	}
}

func report(w io.Writer, cfg reportConfig) error {
	if cfg.runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if cfg.turns <= 0 {
		return fmt.Errorf("--turns must be > 0")
	}
	mode := match.Mode(cfg.mode)
	if err := (match.GameConfig{Mode: mode, Rating: match.DefaultRating}).Validate(); err != nil {
		return err
	}
	op, err := operatorByName(cfg.operator)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, heading.Sprint("=== Headless Board Report ==="))
	fmt.Fprintf(w, "mode=%s operator=%s runs=%d turns=%d seed_base=%d seed_step=%d budget=%s\n\n",
		mode, cfg.operator, cfg.runs, cfg.turns, cfg.seedBase, cfg.seedStep, cfg.budget)

	all := make([]runStats, 0, cfg.runs)
	for i := 0; i < cfg.runs; i++ {
		seed := cfg.seedBase + int64(i)*cfg.seedStep
		tm := match.NewTestMatch(
			match.WithSeed(seed),
			match.WithMode(mode),
			match.WithBudget(cfg.budget),
		)
		tm.RunTurns(cfg.turns, op)
		rs := collect(i+1, seed, tm)
		all = append(all, rs)
		printRun(w, rs)
		if cfg.verbose {
			fmt.Fprint(w, tm.MatchLog.Format())
			fmt.Fprint(w, tm.Board().Draw())
			fmt.Fprintln(w)
		}
	}
	printAggregate(w, all)
	return nil
}

func operatorByName(name string) (match.Operator, error) {
	switch name {
	case "sensible":
		return match.SensibleOperator, nil
	case "random":
		return match.RandomOperator, nil
	}
	return nil, fmt.Errorf("unsupported operator %q (supported: sensible, random)", name)
}

func collect(runIndex int, seed int64, tm *match.TestMatch) runStats {
	st := tm.Stats
	white := st.Side(board.White)
	black := st.Side(board.Black)
	entries := tm.MatchLog.Entries()
	return runStats{
		runIndex:           runIndex,
		seed:               seed,
		whiteMoves:         white.Relocations,
		blackMoves:         black.Relocations,
		overwrites:         white.Overwrites + black.Overwrites,
		ownLosses:          white.OwnLosses + black.OwnLosses,
		kingsTaken:         white.KingsTaken + black.KingsTaken,
		engineIdle:         st.EngineIdle,
		rejections:         st.Rejections,
		lockedOut:          st.LockedOut,
		lockoutTick:        st.LockoutTick,
		firstOverwriteTick: firstTick(entries, "move", "", " x "),
		whiteLeft:          tm.Board().Count(board.White),
		blackLeft:          tm.Board().Count(board.Black),
		finalFEN:           tm.Board().FEN(),
	}
}

// firstTick returns the tick of the first entry in category (and key, when
// set) whose value contains the substring, or -1.
func firstTick(entries []match.MatchLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// classifyRun names how a match ended up: a lockout dominates, then a lost
// king, otherwise the board is intact.
func classifyRun(rs runStats) (string, string) {
	switch {
	case rs.lockedOut:
		return "lockout", fmt.Sprintf("selection stuck from tick %d", rs.lockoutTick)
	case rs.kingsTaken > 0:
		return "king_lost", fmt.Sprintf("%d king(s) overwritten", rs.kingsTaken)
	case rs.whiteLeft == 0 || rs.blackLeft == 0:
		return "wiped_out", fmt.Sprintf("white=%d black=%d", rs.whiteLeft, rs.blackLeft)
	default:
		return "intact", "all kings on board"
	}
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintln(w, heading.Sprintf("--- Run %d (seed=%d) ---", rs.runIndex, rs.seed))
	fmt.Fprintf(w, "moves: white=%d black=%d engine_idle=%d\n", rs.whiteMoves, rs.blackMoves, rs.engineIdle)
	fmt.Fprintf(w, "overwrites: total=%d own_side=%d kings=%d first_overwrite_tick=%d\n",
		rs.overwrites, rs.ownLosses, rs.kingsTaken, rs.firstOverwriteTick)
	fmt.Fprintf(w, "rejections: %s\n", formatRejections(rs.rejections))
	fmt.Fprintf(w, "remaining: white=%d black=%d\n", rs.whiteLeft, rs.blackLeft)
	fmt.Fprintf(w, "final_fen: %s\n", rs.finalFEN)

	outcome, reason := classifyRun(rs)
	switch outcome {
	case "intact":
		fmt.Fprintf(w, "outcome: %s (%s)\n\n", good.Sprint(outcome), reason)
	case "lockout":
		fmt.Fprintf(w, "outcome: %s (%s)\n\n", bad.Sprint(outcome), reason)
	default:
		fmt.Fprintf(w, "outcome: %s (%s)\n\n", note.Sprint(outcome), reason)
	}
}

func printAggregate(w io.Writer, all []runStats) {
	var white, black, overwrites, own, kings, idle int
	outcomes := map[string]int{}
	for _, rs := range all {
		white += rs.whiteMoves
		black += rs.blackMoves
		overwrites += rs.overwrites
		own += rs.ownLosses
		kings += rs.kingsTaken
		idle += rs.engineIdle
		o, _ := classifyRun(rs)
		outcomes[o]++
	}

	fmt.Fprintln(w, heading.Sprint("=== Aggregate ==="))
	fmt.Fprintf(w, "runs=%d\n", len(all))
	fmt.Fprintf(w, "avg_moves_per_run: white=%.1f black=%.1f engine_idle=%.1f\n",
		avg(white, len(all)), avg(black, len(all)), avg(idle, len(all)))
	fmt.Fprintf(w, "avg_overwrites_per_run: total=%.1f own_side=%.1f kings=%.1f\n",
		avg(overwrites, len(all)), avg(own, len(all)), avg(kings, len(all)))
	fmt.Fprintf(w, "outcomes: %s\n", formatCounts(outcomes))
}

func formatRejections(m map[match.RejectReason]int) string {
	counts := make(map[string]int, len(m))
	for k, v := range m {
		counts[string(k)] = v
	}
	return formatCounts(counts)
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
