package match

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/rs/zerolog"
)

// The human always plays white; in cpu mode the engine plays black.
const (
	HumanSide     = board.White
	AutomatedSide = board.Black
)

// Defaults used when no option overrides them.
const (
	DefaultThinkBudget = 3 * time.Second
	DefaultSquareSize  = 60
)

// Phase is the coordinator's state.
type Phase int

const (
	AwaitingSelection Phase = iota
	AwaitingDestination
	AutomatedThinking
)

func (p Phase) String() string {
	switch p {
	case AwaitingSelection:
		return "awaiting_selection"
	case AwaitingDestination:
		return "awaiting_destination"
	case AutomatedThinking:
		return "automated_thinking"
	default:
		return "unknown"
	}
}

// Coordinator owns the board, whose turn it is, the current selection and
// the automated side's thinking countdown. It is driven by Advance from a
// single host loop and is not safe for concurrent use.
type Coordinator struct {
	cfg        GameConfig
	board      *board.Board
	start      *board.Board
	onMove     board.Side
	selection  Selection
	phase      Phase
	thinkStart time.Time
	budget     time.Duration
	squareSize int
	moves      int
	last       *Relocation
	session    Session

	engine   *Engine
	rng      Random
	renderer Renderer
	recorder Recorder
	log      zerolog.Logger
	clock    func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRandom sets the engine's random source.
func WithRandom(r Random) Option {
	return func(c *Coordinator) { c.rng = r }
}

// WithRenderer sets the sink that receives a Snapshot after every Advance.
func WithRenderer(r Renderer) Option {
	return func(c *Coordinator) { c.renderer = r }
}

// WithRecorder sets where game starts and relocations are recorded.
func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithThinkBudget sets how long the automated side waits before moving.
func WithThinkBudget(d time.Duration) Option {
	return func(c *Coordinator) { c.budget = d }
}

// WithSquareSize sets the pixel size of one cell for pointer conversion.
func WithSquareSize(px int) Option {
	return func(c *Coordinator) { c.squareSize = px }
}

// WithBoard starts every game from a copy of b instead of the standard layout.
func WithBoard(b *board.Board) Option {
	return func(c *Coordinator) { c.start = b.Clone() }
}

// WithClock sets the time source used to stamp game starts from NewCoordinator.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.clock = now }
}

// NewCoordinator validates cfg and starts the first game.
func NewCoordinator(cfg GameConfig, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		cfg:        cfg,
		budget:     DefaultThinkBudget,
		squareSize: DefaultSquareSize,
		log:        zerolog.Nop(),
		clock:      time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if c.squareSize <= 0 {
		return nil, fmt.Errorf("square size must be positive, got %d", c.squareSize)
	}
	if c.budget < 0 {
		return nil, fmt.Errorf("think budget must not be negative, got %s", c.budget)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- game only
	}
	c.engine = NewEngine(c.rng)
	c.Reset(c.clock())
	return c, nil
}

// Reset starts a new game: fresh board, white on move, nothing selected.
func (c *Coordinator) Reset(now time.Time) {
	if c.start != nil {
		c.board = c.start.Clone()
	} else {
		c.board = board.StandardLayout()
	}
	c.onMove = board.White
	c.selection = Selection{}
	c.phase = AwaitingSelection
	c.thinkStart = time.Time{}
	c.moves = 0
	c.last = nil
	c.session = NewSession()

	c.log.Info().
		Str("session", c.session.ID).
		Str("name", c.session.Name).
		Str("mode", string(c.cfg.Mode)).
		Int("rating", c.cfg.Rating).
		Msg("game started")
	if c.recorder != nil {
		c.recorder.GameStarted(c.session, c.cfg, c.board.FEN(), now)
	}
}

// Config returns the game configuration.
func (c *Coordinator) Config() GameConfig {
	return c.cfg
}

// Phase returns the current state.
func (c *Coordinator) Phase() Phase {
	return c.phase
}

// OnMove returns the side whose turn it is.
func (c *Coordinator) OnMove() board.Side {
	return c.onMove
}

// Session returns the current game's session.
func (c *Coordinator) Session() Session {
	return c.session
}

// Advance applies one tick: events in order, then the thinking countdown
// sampled at now. A Quit stops processing at once. Every non-quit tick ends
// with a Snapshot sent to the renderer.
func (c *Coordinator) Advance(events []Event, now time.Time) (Delta, Snapshot) {
	var d Delta
	moved := false
	for _, ev := range events {
		switch ev.Kind {
		case EventQuit:
			d.Quit = true
			c.log.Info().Str("session", c.session.ID).Msg("quit requested")
			return d, c.Snapshot(now)
		case EventPointerDown:
			if moved {
				// The frame's queue is consumed by the first completed move.
				c.reject(&d, ev, board.Square{}, RejectAfterMove)
				continue
			}
			moved = c.press(&d, ev, now)
		}
	}
	c.tickThinking(&d, now)

	snap := c.Snapshot(now)
	if c.renderer != nil {
		c.renderer.Render(snap)
	}
	return d, snap
}

// Snapshot returns a copy of the state as of now.
func (c *Coordinator) Snapshot(now time.Time) Snapshot {
	s := Snapshot{
		Board:     c.board.Clone(),
		Selection: c.selection,
		OnMove:    c.onMove,
		Phase:     c.phase,
		Config:    c.cfg,
		Session:   c.session,
		Moves:     c.moves,
	}
	if c.phase == AutomatedThinking {
		left := c.budget - now.Sub(c.thinkStart)
		if left < 0 {
			left = 0
		}
		s.ThinkingLeft = left
	}
	if c.last != nil {
		last := *c.last
		s.LastMove = &last
	}
	return s
}

// SquareAt converts a pixel position into a grid square. ok is false off the
// grid.
func (c *Coordinator) SquareAt(x, y int) (board.Square, bool) {
	if x < 0 || y < 0 {
		return board.Square{}, false
	}
	sq := board.Square{Row: y / c.squareSize, Col: x / c.squareSize}
	return sq, sq.InBounds()
}

// press handles one pointer press and reports whether it completed a move.
func (c *Coordinator) press(d *Delta, ev Event, now time.Time) bool {
	sq, ok := c.SquareAt(ev.X, ev.Y)
	if !ok {
		c.reject(d, ev, sq, RejectOffBoard)
		return false
	}

	switch c.phase {
	case AutomatedThinking:
		c.reject(d, ev, sq, RejectThinking)
		return false

	case AwaitingSelection:
		// Any cell may be selected, occupied or not.
		c.selection = Selection{Square: sq, Active: true}
		c.phase = AwaitingDestination
		d.Selections = append(d.Selections, sq)
		c.log.Debug().Str("session", c.session.ID).Stringer("square", sq).Msg("selected")
		return false

	case AwaitingDestination:
		from := c.selection.Square
		src, err := c.board.Get(from)
		if err != nil || !IsLegal(src, c.onMove) {
			// Selection stays put; there is no way to pick another source.
			c.reject(d, ev, sq, RejectIllegalSource)
			return false
		}
		mover := c.onMove
		c.relocate(d, from, sq, false, now)
		c.selection = Selection{}
		c.completeMove(d, mover, now)
		return true
	}
	return false
}

// completeMove hands the turn over after a human relocation.
func (c *Coordinator) completeMove(d *Delta, mover board.Side, now time.Time) {
	c.onMove = mover.Opponent()
	d.SideSwitched = true
	if c.cfg.Mode == ModeCPU && mover == HumanSide {
		c.phase = AutomatedThinking
		c.thinkStart = now
		c.log.Debug().Str("session", c.session.ID).Dur("budget", c.budget).Msg("automated side thinking")
		return
	}
	c.phase = AwaitingSelection
}

// tickThinking re-derives the countdown from now and lets the engine move once
// the budget has elapsed.
func (c *Coordinator) tickThinking(d *Delta, now time.Time) {
	if c.phase != AutomatedThinking {
		return
	}
	if now.Sub(c.thinkStart) < c.budget {
		return
	}
	from, to, ok := c.engine.ChooseMove(c.board, c.onMove)
	if ok {
		c.relocate(d, from, to, true, now)
	} else {
		d.EngineIdle = true
		c.log.Debug().Str("session", c.session.ID).Stringer("side", c.onMove).Msg("no candidate move")
	}
	c.onMove = HumanSide
	d.SideSwitched = true
	c.phase = AwaitingSelection
}

func (c *Coordinator) relocate(d *Delta, from, to board.Square, automated bool, now time.Time) {
	moved, _ := c.board.Get(from)
	replaced, err := c.board.Relocate(from, to)
	if err != nil {
		c.log.Error().Err(err).Str("session", c.session.ID).Msg("relocation failed")
		return
	}
	c.moves++
	r := Relocation{
		Number:    c.moves,
		Side:      c.onMove,
		From:      from,
		To:        to,
		Moved:     moved,
		Replaced:  replaced,
		Automated: automated,
	}
	c.last = &r
	d.Relocations = append(d.Relocations, r)

	c.log.Info().
		Str("session", c.session.ID).
		Int("move", r.Number).
		Stringer("side", r.Side).
		Stringer("from", from).
		Stringer("to", to).
		Stringer("occupant", moved).
		Stringer("replaced", replaced).
		Bool("automated", automated).
		Msg("relocated")
	if c.recorder != nil {
		c.recorder.Relocated(c.session, r, c.board.FEN(), now)
	}
}

func (c *Coordinator) reject(d *Delta, ev Event, sq board.Square, why RejectReason) {
	d.Rejections = append(d.Rejections, Rejection{Event: ev, Square: sq, Reason: why})
	c.log.Debug().
		Str("session", c.session.ID).
		Int("x", ev.X).
		Int("y", ev.Y).
		Str("reason", string(why)).
		Msg("press dropped")
}
