package match

import (
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

// EventKind distinguishes input events.
type EventKind int

const (
	EventPointerDown EventKind = iota + 1
	EventQuit
)

// Event is one input event in pixel coordinates.
type Event struct {
	Kind EventKind
	X    int
	Y    int
}

// PointerDown is a press at pixel (x, y).
func PointerDown(x, y int) Event {
	return Event{Kind: EventPointerDown, X: x, Y: y}
}

// Quit asks the host to terminate.
func Quit() Event {
	return Event{Kind: EventQuit}
}

// RejectReason says why a press had no effect.
type RejectReason string

const (
	RejectOffBoard      RejectReason = "off_board"      // outside the grid
	RejectThinking      RejectReason = "thinking"       // automated side's turn
	RejectIllegalSource RejectReason = "illegal_source" // gate refused the selected source
	RejectAfterMove     RejectReason = "after_move"     // a move already completed this tick
)

// Rejection records a dropped press.
type Rejection struct {
	Event  Event
	Square board.Square
	Reason RejectReason
}

// Relocation is one applied move.
type Relocation struct {
	Number    int // 1-based count within the game
	Side      board.Side
	From      board.Square
	To        board.Square
	Moved     board.Occupant
	Replaced  board.Occupant // None unless the destination was occupied
	Automated bool
}

// Delta is what one Advance changed.
type Delta struct {
	Selections   []board.Square
	Relocations  []Relocation
	Rejections   []Rejection
	SideSwitched bool
	EngineIdle   bool // the engine found no candidate move this tick
	Quit         bool
}

// Selection is the currently selected source, if any.
type Selection struct {
	Square board.Square
	Active bool
}

// Session identifies one game between resets.
type Session struct {
	ID   string
	Name string
}

// NewSession returns a fresh session with a random ID and a readable name.
func NewSession() Session {
	return Session{ID: uuid.NewString(), Name: petname.Generate(2, "-")}
}

// Snapshot is the read-only view handed to renderers each tick.
type Snapshot struct {
	Board        *board.Board
	Selection    Selection
	OnMove       board.Side
	Phase        Phase
	ThinkingLeft time.Duration
	Config       GameConfig
	Session      Session
	Moves        int
	LastMove     *Relocation
}

// Renderer consumes snapshots. The coordinator never draws on its own.
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(Snapshot)

// Render calls f(s).
func (f RendererFunc) Render(s Snapshot) { f(s) }

// Recorder receives game and move records, e.g. a history store.
type Recorder interface {
	GameStarted(s Session, cfg GameConfig, fen string, at time.Time)
	Relocated(s Session, r Relocation, fen string, at time.Time)
}
