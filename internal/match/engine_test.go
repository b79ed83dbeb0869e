package match

import (
	"math/rand"
	"testing"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRandom returns fixed picks and records each n it was asked for.
type scriptedRandom struct {
	picks []int
	asked []int
}

func (s *scriptedRandom) Intn(n int) int {
	s.asked = append(s.asked, n)
	p := s.picks[0]
	s.picks = s.picks[1:]
	return p
}

func fullBoard() *board.Board {
	b := &board.Board{}
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			_ = b.Set(board.Square{Row: r, Col: c}, board.Occupant{Side: board.White, Role: board.Pawn})
		}
	}
	return b
}

func TestEngine_SingleCandidateIsDeterministic(t *testing.T) {
	b := fullBoard()
	require.NoError(t, b.Set(board.Square{Row: 3, Col: 3}, board.Occupant{Side: board.Black, Role: board.Knight}))
	require.NoError(t, b.Set(board.Square{Row: 5, Col: 5}, board.None))

	for seed := int64(0); seed < 20; seed++ {
		e := NewEngine(rand.New(rand.NewSource(seed)))
		from, to, ok := e.ChooseMove(b, board.Black)
		require.True(t, ok)
		assert.Equal(t, board.Square{Row: 3, Col: 3}, from)
		assert.Equal(t, board.Square{Row: 5, Col: 5}, to)
	}
}

func TestEngine_NoOwnOccupants(t *testing.T) {
	b := &board.Board{}
	require.NoError(t, b.Set(board.Square{Row: 7, Col: 4}, board.Occupant{Side: board.White, Role: board.King}))
	before := b.FEN()

	rng := &scriptedRandom{}
	_, _, ok := NewEngine(rng).ChooseMove(b, board.Black)
	assert.False(t, ok)
	assert.Empty(t, rng.asked, "no draw should happen without candidates")
	assert.Equal(t, before, b.FEN())
}

func TestEngine_NoEmptyCell(t *testing.T) {
	b := fullBoard()
	require.NoError(t, b.Set(board.Square{Row: 0, Col: 0}, board.Occupant{Side: board.Black, Role: board.Rook}))
	_, _, ok := NewEngine(rand.New(rand.NewSource(1))).ChooseMove(b, board.Black)
	assert.False(t, ok)
}

func TestEngine_DrawsSourceThenDestinationRowMajor(t *testing.T) {
	b := board.StandardLayout()
	// Black sources are rows 0-1 (16 cells); empties are rows 2-5 (32 cells).
	rng := &scriptedRandom{picks: []int{9, 31}}
	from, to, ok := NewEngine(rng).ChooseMove(b, board.Black)
	require.True(t, ok)
	assert.Equal(t, []int{16, 32}, rng.asked)
	assert.Equal(t, board.Square{Row: 1, Col: 1}, from)
	assert.Equal(t, board.Square{Row: 5, Col: 7}, to)
}

func TestEngine_OnlyOwnSourcesAndEmptyDestinations(t *testing.T) {
	b := board.StandardLayout()
	e := NewEngine(rand.New(rand.NewSource(7)))
	for i := 0; i < 200; i++ {
		from, to, ok := e.ChooseMove(b, board.White)
		require.True(t, ok)
		src, _ := b.Get(from)
		dst, _ := b.Get(to)
		if !src.Present() || src.Side != board.White {
			t.Fatalf("draw %d: source %s holds %s", i, from, src)
		}
		if dst.Present() {
			t.Fatalf("draw %d: destination %s holds %s", i, to, dst)
		}
	}
}
