// Package console is a line-oriented host for the board presenter: commands
// typed at a readline prompt become pointer presses on the coordinator.
package console

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/rs/zerolog"
)

// errQuit ends Run without an error.
var errQuit = errors.New("quit")

// Options configures a Console.
type Options struct {
	ThinkBudget time.Duration
	Rating      int        // default offered by the intake prompt
	Mode        match.Mode // skips the intake when set
	Seed        int64
	Recorder    match.Recorder
	Log         zerolog.Logger
}

// Command is one console command.
type Command struct {
	Name        string
	ShortName   string
	Description string
	Usage       string
	Handler     func(args []string) error
}

// Console runs one presenter session against a LineReader.
type Console struct {
	in   LineReader
	out  io.Writer
	opts Options
	log  zerolog.Logger

	coord    *match.Coordinator
	sink     *snapshotSink
	commands map[string]*Command
	order    []string

	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a console reading from in and writing to out.
func New(in LineReader, out io.Writer, opts Options) *Console {
	if opts.Rating == 0 {
		opts.Rating = match.DefaultRating
	}
	c := &Console{
		in:       in,
		out:      out,
		opts:     opts,
		log:      opts.Log.With().Str("component", "console").Logger(),
		sink:     &snapshotSink{},
		commands: make(map[string]*Command),
		now:      time.Now,
		sleep:    time.Sleep,
	}
	c.registerCommands()
	return c
}

func (c *Console) register(cmd *Command) {
	c.commands[cmd.Name] = cmd
	if cmd.ShortName != "" {
		c.commands[cmd.ShortName] = cmd
	}
	c.order = append(c.order, cmd.Name)
}

func (c *Console) registerCommands() {
	c.register(&Command{Name: "press", ShortName: "p", Description: "Press a cell by row and column", Usage: "press <row> <col>", Handler: c.pressHandler})
	c.register(&Command{Name: "wait", ShortName: "w", Description: "Let time pass until the cpu has moved", Usage: "wait", Handler: c.waitHandler})
	c.register(&Command{Name: "board", ShortName: "b", Description: "Show the board", Usage: "board", Handler: c.boardHandler})
	c.register(&Command{Name: "fen", ShortName: "f", Description: "Print the position as FEN", Usage: "fen", Handler: c.fenHandler})
	c.register(&Command{Name: "new", ShortName: "n", Description: "Start a new game", Usage: "new", Handler: c.newHandler})
	c.register(&Command{Name: "help", ShortName: "?", Description: "Show available commands", Usage: "help", Handler: c.helpHandler})
	c.register(&Command{Name: "quit", ShortName: "x", Description: "Exit", Usage: "quit", Handler: c.quitHandler})
}

// Run does the config intake (unless preset), then reads commands until quit
// or end of input.
func (c *Console) Run() error {
	if err := c.startGame(c.opts.Mode); err != nil {
		if errors.Is(err, ErrAborted) {
			return nil
		}
		return err
	}
	for {
		c.in.SetPrompt(c.prompt())
		line, err := c.in.Readline()
		if err == io.EOF {
			c.advance(match.Quit())
			return nil
		}
		if err != nil {
			// Interrupt clears the line, like the readline default.
			continue
		}
		if err := c.Execute(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if errors.Is(err, ErrAborted) {
				return nil
			}
			fmt.Fprintln(c.out, failure.Sprint("Error: "+err.Error()))
		}
	}
}

func (c *Console) startGame(mode match.Mode) error {
	cfg := match.GameConfig{Mode: mode, Rating: c.opts.Rating}
	if mode == "" {
		var err error
		cfg, err = Intake(c.in, c.out, c.opts.Rating)
		if err != nil {
			return err
		}
	}

	seed := c.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	copts := []match.Option{
		match.WithRenderer(c.sink),
		match.WithLogger(c.opts.Log),
		match.WithThinkBudget(c.opts.ThinkBudget),
		match.WithRandom(rand.New(rand.NewSource(seed))), // #nosec G404 -- game only
		match.WithClock(c.now),
	}
	if c.opts.Recorder != nil {
		copts = append(copts, match.WithRecorder(c.opts.Recorder))
	}
	coord, err := match.NewCoordinator(cfg, copts...)
	if err != nil {
		return err
	}
	c.coord = coord
	c.sink.last = coord.Snapshot(c.now())

	fmt.Fprintf(c.out, "%s  %s  rating %d\n", label.Sprint(coord.Session().Name), cfg.Mode, cfg.Rating)
	c.printBoard()
	return nil
}

func (c *Console) prompt() string {
	s := c.sink.last
	side := "white"
	if s.OnMove == board.Black {
		side = "black"
	}
	return fmt.Sprintf("%s %s> ", s.Session.Name, side)
}

// Execute runs one command line. Everything but quit and new also advances
// the clock, so an elapsed thinking budget is honoured on the next input.
func (c *Console) Execute(line string) error {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		c.advance()
		return nil
	}
	if _, err := board.ParseSquare(parts[0]); err == nil && len(parts) == 1 {
		return c.pressSquare(parts[0])
	}
	cmd, ok := c.commands[parts[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help')", parts[0])
	}
	return cmd.Handler(parts[1:])
}

// advance feeds events to the coordinator and reports what changed.
func (c *Console) advance(events ...match.Event) match.Delta {
	d, _ := c.coord.Advance(events, c.now())
	for _, r := range d.Relocations {
		fmt.Fprintln(c.out, DescribeRelocation(r))
	}
	if d.EngineIdle {
		fmt.Fprintln(c.out, warn.Sprint("cpu has no move"))
	}
	return d
}

func (c *Console) pressAt(sq board.Square) {
	size := match.DefaultSquareSize
	d := c.advance(match.PointerDown(sq.Col*size+size/2, sq.Row*size+size/2))
	for _, rj := range d.Rejections {
		c.log.Debug().Str("reason", string(rj.Reason)).Msg("press ignored")
	}
	if len(d.Relocations) > 0 || len(d.Selections) > 0 {
		c.printBoard()
	}
}

func (c *Console) pressSquare(name string) error {
	sq, err := board.ParseSquare(name)
	if err != nil {
		return err
	}
	c.pressAt(sq)
	return nil
}

func (c *Console) pressHandler(args []string) error {
	if len(args) == 1 {
		return c.pressSquare(args[0])
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: press <row> <col>")
	}
	r, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("col: %w", err)
	}
	sq := board.Square{Row: r, Col: col}
	if !sq.InBounds() {
		// Off-grid presses are passed through; the coordinator ignores them.
		c.advance(match.PointerDown(-1, -1))
		return nil
	}
	c.pressAt(sq)
	return nil
}

func (c *Console) waitHandler(_ []string) error {
	shown := -1
	for {
		d := c.advance()
		s := c.sink.last
		if len(d.Relocations) > 0 || d.EngineIdle {
			c.printBoard()
			return nil
		}
		if s.Phase != match.AutomatedThinking {
			fmt.Fprintln(c.out, StatusLine(s))
			return nil
		}
		if secs := int(s.ThinkingLeft / time.Second); secs != shown {
			shown = secs
			fmt.Fprintln(c.out, StatusLine(s))
		}
		c.sleep(match.Frame)
	}
}

func (c *Console) boardHandler(_ []string) error {
	c.advance()
	c.printBoard()
	return nil
}

func (c *Console) fenHandler(_ []string) error {
	c.advance()
	fmt.Fprintln(c.out, c.sink.last.Board.FEN())
	return nil
}

func (c *Console) newHandler(_ []string) error {
	c.log.Info().Str("session", c.coord.Session().ID).Msg("new game requested")
	return c.startGame("")
}

func (c *Console) quitHandler(_ []string) error {
	c.advance(match.Quit())
	fmt.Fprintln(c.out, label.Sprint("Goodbye!"))
	return errQuit
}

func (c *Console) helpHandler(_ []string) error {
	names := append([]string(nil), c.order...)
	sort.Strings(names)
	fmt.Fprintln(c.out, label.Sprint("Available commands:"))
	for _, n := range names {
		cmd := c.commands[n]
		fmt.Fprintf(c.out, "  [%s] %-6s %-18s %s\n", cmd.ShortName, cmd.Name, cmd.Usage, cmd.Description)
	}
	fmt.Fprintln(c.out, "  a bare square such as e2 presses that cell")
	return nil
}

func (c *Console) printBoard() {
	s := c.sink.last
	fmt.Fprint(c.out, FormatBoard(s))
	fmt.Fprintln(c.out, StatusLine(s))
}
