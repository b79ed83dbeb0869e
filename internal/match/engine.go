package match

import "github.com/Garsondee/Board-Sense/internal/board"

// Random is the randomness the engine draws from. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
}

// Engine picks moves for the automated side. It is deliberately
// non-strategic: any own occupant, any empty destination.
type Engine struct {
	rng Random
}

// NewEngine returns an engine drawing from rng.
func NewEngine(rng Random) *Engine {
	return &Engine{rng: rng}
}

// ChooseMove returns a source holding one of side's occupants and an empty
// destination, each uniformly at random (source drawn first). ok is false
// when side has no occupants or the board has no empty cell.
func (e *Engine) ChooseMove(b *board.Board, side board.Side) (from, to board.Square, ok bool) {
	sources := b.Squares(func(o board.Occupant) bool {
		return o.Present() && board.SideOf(o) == side
	})
	if len(sources) == 0 {
		return board.Square{}, board.Square{}, false
	}
	from = sources[e.rng.Intn(len(sources))]

	empties := b.Squares(func(o board.Occupant) bool { return !o.Present() })
	if len(empties) == 0 {
		return board.Square{}, board.Square{}, false
	}
	to = empties[e.rng.Intn(len(empties))]
	return from, to, true
}
