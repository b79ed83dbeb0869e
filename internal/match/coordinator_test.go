package match

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func sq(r, c int) board.Square { return board.Square{Row: r, Col: c} }

func at(s board.Square) Event {
	return PointerDown(s.Col*DefaultSquareSize+DefaultSquareSize/2, s.Row*DefaultSquareSize+DefaultSquareSize/2)
}

func newCoord(t *testing.T, mode Mode, opts ...Option) *Coordinator {
	t.Helper()
	opts = append([]Option{
		WithRandom(rand.New(rand.NewSource(3))),
		WithClock(func() time.Time { return t0 }),
	}, opts...)
	c, err := NewCoordinator(GameConfig{Mode: mode, Rating: DefaultRating}, opts...)
	require.NoError(t, err)
	return c
}

func get(t *testing.T, b *board.Board, s board.Square) board.Occupant {
	t.Helper()
	o, err := b.Get(s)
	require.NoError(t, err)
	return o
}

type fakeRecorder struct {
	games []Session
	moves []Relocation
	fens  []string
}

func (f *fakeRecorder) GameStarted(s Session, _ GameConfig, _ string, _ time.Time) {
	f.games = append(f.games, s)
}

func (f *fakeRecorder) Relocated(_ Session, r Relocation, fen string, _ time.Time) {
	f.moves = append(f.moves, r)
	f.fens = append(f.fens, fen)
}

func TestCoordinator_StartsAwaitingWhite(t *testing.T) {
	c := newCoord(t, ModePvP)
	snap := c.Snapshot(t0)
	assert.Equal(t, board.White, snap.OnMove)
	assert.Equal(t, AwaitingSelection, snap.Phase)
	assert.False(t, snap.Selection.Active)
	assert.Equal(t, 32, snap.Board.Occupied())
	assert.NotEmpty(t, snap.Session.ID)
	assert.NotEmpty(t, snap.Session.Name)
}

func TestCoordinator_PvPPawnAdvance(t *testing.T) {
	c := newCoord(t, ModePvP)

	d, snap := c.Advance([]Event{at(sq(6, 4))}, t0)
	assert.Equal(t, []board.Square{sq(6, 4)}, d.Selections)
	assert.Equal(t, AwaitingDestination, snap.Phase)
	assert.True(t, snap.Selection.Active)

	d, snap = c.Advance([]Event{at(sq(4, 4))}, t0)
	require.Len(t, d.Relocations, 1)
	assert.True(t, d.SideSwitched)
	assert.Equal(t, board.Occupant{Side: board.White, Role: board.Pawn}, get(t, snap.Board, sq(4, 4)))
	assert.False(t, get(t, snap.Board, sq(6, 4)).Present())
	assert.Equal(t, board.Black, snap.OnMove)
	assert.Equal(t, AwaitingSelection, snap.Phase)
	assert.False(t, snap.Selection.Active)
	require.NotNil(t, snap.LastMove)
	assert.Equal(t, 1, snap.LastMove.Number)
}

func TestCoordinator_OverwriteOwnOccupant(t *testing.T) {
	c := newCoord(t, ModePvP)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	d, snap := c.Advance([]Event{at(sq(6, 5))}, t0)

	require.Len(t, d.Relocations, 1)
	assert.Equal(t, board.Occupant{Side: board.White, Role: board.Pawn}, d.Relocations[0].Replaced)
	assert.Equal(t, 15, snap.Board.Count(board.White))
	assert.False(t, get(t, snap.Board, sq(6, 4)).Present())
}

func TestCoordinator_StrictAlternationInPvP(t *testing.T) {
	c := newCoord(t, ModePvP)
	moves := []struct{ from, to board.Square }{
		{sq(6, 0), sq(5, 0)}, // white
		{sq(1, 0), sq(2, 0)}, // black
		{sq(6, 1), sq(5, 1)}, // white
		{sq(1, 1), sq(2, 1)}, // black
	}
	want := board.White
	for i, m := range moves {
		c.Advance([]Event{at(m.from)}, t0)
		d, snap := c.Advance([]Event{at(m.to)}, t0)
		require.Len(t, d.Relocations, 1, "move %d", i)
		assert.Equal(t, want, d.Relocations[0].Side, "move %d", i)
		want = want.Opponent()
		assert.Equal(t, want, snap.OnMove, "move %d", i)
	}
}

func TestCoordinator_WrongSideSourceLocksOut(t *testing.T) {
	c := newCoord(t, ModePvP)
	c.Advance([]Event{at(sq(1, 0))}, t0) // black pawn on white's turn
	before := c.Snapshot(t0).Board.FEN()

	for i := 0; i < 5; i++ {
		d, snap := c.Advance([]Event{at(sq(4, i))}, t0)
		require.Len(t, d.Rejections, 1)
		assert.Equal(t, RejectIllegalSource, d.Rejections[0].Reason)
		assert.Equal(t, AwaitingDestination, snap.Phase)
		assert.Equal(t, sq(1, 0), snap.Selection.Square)
		assert.Equal(t, board.White, snap.OnMove)
		assert.True(t, IsLockedOut(snap))
	}
	assert.Equal(t, before, c.Snapshot(t0).Board.FEN())
}

func TestCoordinator_EmptySourceLocksOut(t *testing.T) {
	c := newCoord(t, ModePvP)
	c.Advance([]Event{at(sq(4, 4))}, t0)
	d, snap := c.Advance([]Event{at(sq(6, 4))}, t0)
	require.Len(t, d.Rejections, 1)
	assert.Equal(t, RejectIllegalSource, d.Rejections[0].Reason)
	assert.Equal(t, sq(4, 4), snap.Selection.Square)
	assert.True(t, IsLockedOut(snap))
}

func TestCoordinator_OffBoardPressIgnored(t *testing.T) {
	c := newCoord(t, ModePvP)
	for _, ev := range []Event{PointerDown(-1, 10), PointerDown(10, -5), PointerDown(480, 10), PointerDown(10, 999)} {
		d, snap := c.Advance([]Event{ev}, t0)
		require.Len(t, d.Rejections, 1)
		assert.Equal(t, RejectOffBoard, d.Rejections[0].Reason)
		assert.Equal(t, AwaitingSelection, snap.Phase)
	}
}

func TestCoordinator_CPUThinksThenMoves(t *testing.T) {
	c := newCoord(t, ModeCPU, WithThinkBudget(3*time.Second))
	c.Advance([]Event{at(sq(6, 4))}, t0)
	d, snap := c.Advance([]Event{at(sq(4, 4))}, t0)
	require.Len(t, d.Relocations, 1)
	assert.Equal(t, AutomatedThinking, snap.Phase)
	assert.Equal(t, board.Black, snap.OnMove)
	assert.Equal(t, 3*time.Second, snap.ThinkingLeft)

	d, snap = c.Advance(nil, t0.Add(1200*time.Millisecond))
	assert.Empty(t, d.Relocations)
	assert.Equal(t, 1800*time.Millisecond, snap.ThinkingLeft)
	assert.Equal(t, AutomatedThinking, snap.Phase)

	d, snap = c.Advance(nil, t0.Add(2999*time.Millisecond))
	assert.Empty(t, d.Relocations)

	d, snap = c.Advance(nil, t0.Add(3*time.Second))
	require.Len(t, d.Relocations, 1)
	r := d.Relocations[0]
	assert.True(t, r.Automated)
	assert.Equal(t, board.Black, r.Side)
	assert.Equal(t, board.Black, r.Moved.Side)
	assert.False(t, r.Replaced.Present(), "engine only lands on empty cells")
	assert.Equal(t, board.White, snap.OnMove)
	assert.Equal(t, AwaitingSelection, snap.Phase)
	assert.Equal(t, 16, snap.Board.Count(board.Black))
	assert.Equal(t, 32, snap.Board.Occupied())

	d, _ = c.Advance(nil, t0.Add(10*time.Second))
	assert.Empty(t, d.Relocations, "only one automated move per human move")
}

func TestCoordinator_PressesDroppedWhileThinking(t *testing.T) {
	c := newCoord(t, ModeCPU)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	c.Advance([]Event{at(sq(4, 4))}, t0)
	before := c.Snapshot(t0).Board.FEN()

	d, snap := c.Advance([]Event{at(sq(1, 0)), at(sq(3, 0))}, t0.Add(time.Second))
	require.Len(t, d.Rejections, 2)
	for _, rj := range d.Rejections {
		assert.Equal(t, RejectThinking, rj.Reason)
	}
	assert.False(t, snap.Selection.Active)
	assert.Equal(t, before, snap.Board.FEN())
}

func TestCoordinator_ZeroBudgetMovesSameTick(t *testing.T) {
	c := newCoord(t, ModeCPU, WithThinkBudget(0))
	c.Advance([]Event{at(sq(6, 4))}, t0)
	d, snap := c.Advance([]Event{at(sq(4, 4))}, t0)
	require.Len(t, d.Relocations, 2)
	assert.False(t, d.Relocations[0].Automated)
	assert.True(t, d.Relocations[1].Automated)
	assert.Equal(t, board.White, snap.OnMove)
}

func TestCoordinator_EngineIdleReturnsTurn(t *testing.T) {
	b := &board.Board{}
	require.NoError(t, b.Set(sq(7, 4), board.Occupant{Side: board.White, Role: board.King}))
	c := newCoord(t, ModeCPU, WithBoard(b), WithThinkBudget(time.Second))

	c.Advance([]Event{at(sq(7, 4))}, t0)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	d, snap := c.Advance(nil, t0.Add(time.Second))
	assert.True(t, d.EngineIdle)
	assert.Empty(t, d.Relocations)
	assert.Equal(t, board.White, snap.OnMove)
	assert.Equal(t, AwaitingSelection, snap.Phase)
}

func TestCoordinator_QuitStopsProcessing(t *testing.T) {
	var renders int
	c := newCoord(t, ModePvP, WithRenderer(RendererFunc(func(Snapshot) { renders++ })))

	d, snap := c.Advance([]Event{at(sq(6, 4)), Quit(), at(sq(4, 4))}, t0)
	assert.True(t, d.Quit)
	assert.Equal(t, []board.Square{sq(6, 4)}, d.Selections)
	assert.Empty(t, d.Relocations)
	assert.Equal(t, 32, snap.Board.Occupied())
	assert.Equal(t, 0, renders, "quit tick is not rendered")
}

func TestCoordinator_OneMovePerTick(t *testing.T) {
	c := newCoord(t, ModePvP)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	d, snap := c.Advance([]Event{at(sq(4, 4)), at(sq(1, 4)), at(sq(3, 4))}, t0)
	require.Len(t, d.Relocations, 1)
	require.Len(t, d.Rejections, 2)
	assert.Equal(t, RejectAfterMove, d.Rejections[0].Reason)
	assert.False(t, snap.Selection.Active)
	assert.Equal(t, board.Black, snap.OnMove)
}

func TestCoordinator_RendersEveryTick(t *testing.T) {
	var got []Snapshot
	c := newCoord(t, ModePvP, WithRenderer(RendererFunc(func(s Snapshot) { got = append(got, s) })))
	c.Advance(nil, t0)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	c.Advance(nil, t0)
	require.Len(t, got, 3)
	assert.Equal(t, AwaitingDestination, got[2].Phase)
}

func TestCoordinator_SnapshotIsACopy(t *testing.T) {
	c := newCoord(t, ModePvP)
	snap := c.Snapshot(t0)
	require.NoError(t, snap.Board.Set(sq(4, 4), board.Occupant{Side: board.Black, Role: board.Queen}))
	assert.False(t, get(t, c.Snapshot(t0).Board, sq(4, 4)).Present())
}

func TestCoordinator_RecorderSeesStartsAndMoves(t *testing.T) {
	rec := &fakeRecorder{}
	c := newCoord(t, ModePvP, WithRecorder(rec))
	c.Advance([]Event{at(sq(6, 4))}, t0)
	c.Advance([]Event{at(sq(4, 4))}, t0)
	require.Len(t, rec.games, 1)
	require.Len(t, rec.moves, 1)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR", rec.fens[0])

	first := c.Session()
	c.Reset(t0)
	require.Len(t, rec.games, 2)
	assert.NotEqual(t, first.ID, rec.games[1].ID)
}

func TestCoordinator_ResetRestoresLayout(t *testing.T) {
	c := newCoord(t, ModePvP)
	c.Advance([]Event{at(sq(6, 4))}, t0)
	c.Advance([]Event{at(sq(4, 4))}, t0)
	c.Reset(t0)
	snap := c.Snapshot(t0)
	assert.Equal(t, board.StandardLayout().FEN(), snap.Board.FEN())
	assert.Equal(t, board.White, snap.OnMove)
	assert.Equal(t, 0, snap.Moves)
	assert.Nil(t, snap.LastMove)
}

func TestCoordinator_SquareAtCustomSize(t *testing.T) {
	c := newCoord(t, ModePvP, WithSquareSize(80))
	s, ok := c.SquareAt(639, 0)
	assert.True(t, ok)
	assert.Equal(t, sq(0, 7), s)
	_, ok = c.SquareAt(640, 0)
	assert.False(t, ok)
}

func TestNewCoordinator_RejectsBadInput(t *testing.T) {
	_, err := NewCoordinator(GameConfig{Mode: "blitz", Rating: 1200})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewCoordinator(GameConfig{Mode: ModeCPU, Rating: 10})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = NewCoordinator(GameConfig{Mode: ModePvP, Rating: 1200}, WithSquareSize(0))
	assert.Error(t, err)
	_, err = NewCoordinator(GameConfig{Mode: ModePvP, Rating: 1200}, WithThinkBudget(-time.Second))
	assert.Error(t, err)
}
