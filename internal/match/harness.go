package match

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
)

// Frame is the simulated time between two ticks of a TestMatch.
const Frame = time.Second / 60

// TestMatch is a headless match harness used by tests and the headless report.
// It drives a Coordinator the way the window host does, but with a fake clock
// and deterministic randomness, and records every tick into a MatchLog.
type TestMatch struct {
	Coord    *Coordinator
	MatchLog *MatchLog
	Stats    *MatchStats
	Tick     int
	Now      time.Time
	Last     Snapshot

	cfg       GameConfig
	budget    time.Duration
	start     *board.Board
	seed      int64
	rng       *rand.Rand // operator choices; the engine gets its own stream
	recorders []Recorder
}

// MatchOption is a builder function applied to a TestMatch before the
// coordinator is created.
type MatchOption func(*TestMatch)

// WithSeed sets the seed for both the engine and the operator.
func WithSeed(seed int64) MatchOption {
	return func(tm *TestMatch) { tm.seed = seed }
}

// WithMode selects pvp or cpu play.
func WithMode(m Mode) MatchOption {
	return func(tm *TestMatch) { tm.cfg.Mode = m }
}

// WithRating sets the recorded difficulty rating.
func WithRating(r int) MatchOption {
	return func(tm *TestMatch) { tm.cfg.Rating = r }
}

// WithBudget sets the automated side's thinking budget.
func WithBudget(d time.Duration) MatchOption {
	return func(tm *TestMatch) { tm.budget = d }
}

// WithStartBoard starts the match from b instead of the standard layout.
func WithStartBoard(b *board.Board) MatchOption {
	return func(tm *TestMatch) { tm.start = b }
}

// WithVerbose enables per-tick countdown entries in the match log.
func WithVerbose(v bool) MatchOption {
	return func(tm *TestMatch) { tm.MatchLog = NewMatchLog(v) }
}

// WithMatchRecorder attaches a recorder, e.g. a history store.
func WithMatchRecorder(r Recorder) MatchOption {
	return func(tm *TestMatch) { tm.recorders = append(tm.recorders, r) }
}

// NewTestMatch builds a harness. It panics on an invalid configuration, which
// is always a bug in the calling test.
func NewTestMatch(opts ...MatchOption) *TestMatch {
	tm := &TestMatch{
		MatchLog: NewMatchLog(false),
		Stats:    NewMatchStats(),
		Now:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		cfg:      GameConfig{Mode: ModePvP, Rating: DefaultRating},
		budget:   DefaultThinkBudget,
		seed:     1,
	}
	for _, o := range opts {
		o(tm)
	}
	tm.rng = rand.New(rand.NewSource(tm.seed + 1)) // #nosec G404 -- test harness

	copts := []Option{
		WithRandom(rand.New(rand.NewSource(tm.seed))), // #nosec G404 -- test harness
		WithThinkBudget(tm.budget),
		WithClock(func() time.Time { return tm.Now }),
	}
	if tm.start != nil {
		copts = append(copts, WithBoard(tm.start))
	}
	if len(tm.recorders) > 0 {
		copts = append(copts, WithRecorder(multiRecorder(tm.recorders)))
	}
	c, err := NewCoordinator(tm.cfg, copts...)
	if err != nil {
		panic(fmt.Sprintf("test match: %v", err))
	}
	tm.Coord = c
	tm.Last = c.Snapshot(tm.Now)
	tm.MatchLog.Add(0, "--", "turn", "start", fmt.Sprintf("%s %s rating=%d", c.Session().Name, tm.cfg.Mode, tm.cfg.Rating), 0)
	return tm
}

// Board returns the live board as of the last tick.
func (tm *TestMatch) Board() *board.Board {
	return tm.Last.Board
}

// Press clicks the centre of sq and advances one frame.
func (tm *TestMatch) Press(sq board.Square) Delta {
	half := DefaultSquareSize / 2
	return tm.Send(PointerDown(sq.Col*DefaultSquareSize+half, sq.Row*DefaultSquareSize+half))
}

// Move presses from and then to, one frame each, and returns the merged delta.
func (tm *TestMatch) Move(from, to board.Square) Delta {
	d1 := tm.Press(from)
	d2 := tm.Press(to)
	return mergeDeltas(d1, d2)
}

// Send advances one frame with the given events.
func (tm *TestMatch) Send(events ...Event) Delta {
	tm.Now = tm.Now.Add(Frame)
	return tm.advance(events)
}

// Step advances simulated time by d in a single tick with no input.
func (tm *TestMatch) Step(d time.Duration) Delta {
	tm.Now = tm.Now.Add(d)
	return tm.advance(nil)
}

// RunTicks advances n idle frames.
func (tm *TestMatch) RunTicks(n int) {
	for i := 0; i < n; i++ {
		tm.Send()
	}
}

// Operator picks the square to press next given the current state.
type Operator func(s Snapshot, rng *rand.Rand) board.Square

// RandomOperator presses any cell uniformly.
func RandomOperator(_ Snapshot, rng *rand.Rand) board.Square {
	return board.Square{Row: rng.Intn(board.Size), Col: rng.Intn(board.Size)}
}

// SensibleOperator selects one of the mover's own occupants and then presses
// any cell, so it never locks itself out.
func SensibleOperator(s Snapshot, rng *rand.Rand) board.Square {
	if s.Phase == AwaitingSelection {
		own := s.Board.Squares(func(o board.Occupant) bool {
			return IsLegal(o, s.OnMove)
		})
		if len(own) > 0 {
			return own[rng.Intn(len(own))]
		}
	}
	return RandomOperator(s, rng)
}

// maxPressesPerTurn bounds a turn when the operator never completes a move.
const maxPressesPerTurn = 64

// RunTurns plays up to n turns. A turn ends when the move count increases and,
// in cpu mode, the automated reply has been made. It stops early on lockout.
func (tm *TestMatch) RunTurns(n int, op Operator) {
	for turn := 0; turn < n; turn++ {
		if tm.Stats.LockedOut {
			return
		}
		before := tm.Last.Moves
		for i := 0; i < maxPressesPerTurn && tm.Last.Moves == before; i++ {
			tm.Press(op(tm.Last, tm.rng))
			if tm.Stats.LockedOut {
				return
			}
		}
		for tm.Last.Phase == AutomatedThinking {
			tm.Step(tm.budget)
		}
		tm.MatchLog.Add(tm.Tick, "--", "turn", "end",
			fmt.Sprintf("moves=%d fen=%s", tm.Last.Moves, tm.Last.Board.FEN()), float64(tm.Last.Moves))
	}
}

// Reset starts a new game in the same harness.
func (tm *TestMatch) Reset() {
	tm.Coord.Reset(tm.Now)
	tm.Last = tm.Coord.Snapshot(tm.Now)
	tm.Stats = NewMatchStats()
	tm.MatchLog.Add(tm.Tick, "--", "turn", "reset", tm.Coord.Session().Name, 0)
}

func (tm *TestMatch) advance(events []Event) Delta {
	tm.Tick++
	mover := tm.Last.OnMove
	d, snap := tm.Coord.Advance(events, tm.Now)
	tm.Last = snap
	tm.Stats.Observe(tm.Tick, mover, d, snap)
	tm.logDelta(mover, d, snap)
	return d
}

func (tm *TestMatch) logDelta(mover board.Side, d Delta, snap Snapshot) {
	for _, sq := range d.Selections {
		o, _ := snap.Board.Get(sq)
		tm.MatchLog.Add(tm.Tick, mover.String(), "select", "selected", fmt.Sprintf("%s %s", sq, o), 0)
	}
	for _, r := range d.Relocations {
		key := "relocated"
		if r.Automated {
			key = "automated"
		}
		detail := fmt.Sprintf("%s → %s %s", r.From, r.To, r.Moved)
		if r.Replaced.Present() {
			detail += " x " + r.Replaced.String()
		}
		tm.MatchLog.Add(tm.Tick, r.Side.String(), "move", key, detail, float64(r.Number))
	}
	for _, rj := range d.Rejections {
		tm.MatchLog.Add(tm.Tick, mover.String(), "reject", string(rj.Reason),
			fmt.Sprintf("x=%d y=%d", rj.Event.X, rj.Event.Y), 0)
	}
	if d.EngineIdle {
		tm.MatchLog.Add(tm.Tick, AutomatedSide.String(), "engine", "idle", "no candidate move", 0)
	}
	if snap.Phase == AutomatedThinking {
		tm.MatchLog.AddVerbose(tm.Tick, AutomatedSide.String(), "engine", "thinking",
			snap.ThinkingLeft.String(), snap.ThinkingLeft.Seconds())
	}
	if tm.Stats.LockedOut && tm.Stats.LockoutTick == tm.Tick {
		tm.MatchLog.Add(tm.Tick, snap.OnMove.String(), "turn", "lockout",
			"selected source "+snap.Selection.Square.String()+" can never move", 0)
	}
}

func mergeDeltas(a, b Delta) Delta {
	a.Selections = append(a.Selections, b.Selections...)
	a.Relocations = append(a.Relocations, b.Relocations...)
	a.Rejections = append(a.Rejections, b.Rejections...)
	a.SideSwitched = a.SideSwitched || b.SideSwitched
	a.EngineIdle = a.EngineIdle || b.EngineIdle
	a.Quit = a.Quit || b.Quit
	return a
}

type multiRecorder []Recorder

func (m multiRecorder) GameStarted(s Session, cfg GameConfig, fen string, at time.Time) {
	for _, r := range m {
		r.GameStarted(s, cfg, fen, at)
	}
}

func (m multiRecorder) Relocated(s Session, r Relocation, fen string, at time.Time) {
	for _, rec := range m {
		rec.Relocated(s, r, fen, at)
	}
}
