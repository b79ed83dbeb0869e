package board

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// Size is the number of rows and columns.
const Size = 8

// ErrOutOfRange is returned for coordinates outside the grid. Hitting it means
// the input layer let a bad coordinate through.
var ErrOutOfRange = errors.New("square out of range")

// Square addresses a cell. Row 0 is the far (black) rank, row 7 the near
// (white) rank.
type Square struct {
	Row int
	Col int
}

// InBounds reports whether the square lies on the grid.
func (sq Square) InBounds() bool {
	return sq.Row >= 0 && sq.Row < Size && sq.Col >= 0 && sq.Col < Size
}

// String returns the algebraic name, e.g. "e2" for row 6 col 4.
func (sq Square) String() string {
	if !sq.InBounds() {
		return fmt.Sprintf("(%d,%d)", sq.Row, sq.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col, '8'-sq.Row)
}

// ParseSquare accepts algebraic names ("e2").
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrOutOfRange, s)
	}
	return Square{Row: int('8' - s[1]), Col: int(s[0] - 'a')}, nil
}

// Board is the 8x8 grid of occupants. The zero Board is empty.
type Board struct {
	cells [Size][Size]Occupant
}

var backRank = [Size]Role{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardLayout returns the fixed starting arrangement: black back rank and
// pawns on rows 0-1, white pawns and back rank on rows 6-7.
func StandardLayout() *Board {
	b := &Board{}
	for c := 0; c < Size; c++ {
		b.cells[0][c] = Occupant{Side: Black, Role: backRank[c]}
		b.cells[1][c] = Occupant{Side: Black, Role: Pawn}
		b.cells[6][c] = Occupant{Side: White, Role: Pawn}
		b.cells[7][c] = Occupant{Side: White, Role: backRank[c]}
	}
	return b
}

// Get returns the occupant at sq (None when empty).
func (b *Board) Get(sq Square) (Occupant, error) {
	if !sq.InBounds() {
		return None, fmt.Errorf("get %d,%d: %w", sq.Row, sq.Col, ErrOutOfRange)
	}
	return b.cells[sq.Row][sq.Col], nil
}

// Set writes o at sq unconditionally.
func (b *Board) Set(sq Square, o Occupant) error {
	if !sq.InBounds() {
		return fmt.Errorf("set %d,%d: %w", sq.Row, sq.Col, ErrOutOfRange)
	}
	b.cells[sq.Row][sq.Col] = o
	return nil
}

// Relocate moves the occupant at from onto to, overwriting whatever was there,
// and returns the overwritten occupant. The destination is written before the
// source is cleared, so relocating a square onto itself empties it.
func (b *Board) Relocate(from, to Square) (Occupant, error) {
	if !from.InBounds() {
		return None, fmt.Errorf("relocate from %d,%d: %w", from.Row, from.Col, ErrOutOfRange)
	}
	if !to.InBounds() {
		return None, fmt.Errorf("relocate to %d,%d: %w", to.Row, to.Col, ErrOutOfRange)
	}
	replaced := b.cells[to.Row][to.Col]
	b.cells[to.Row][to.Col] = b.cells[from.Row][from.Col]
	b.cells[from.Row][from.Col] = None
	return replaced, nil
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Squares enumerates, row-major, the squares whose occupant satisfies keep.
func (b *Board) Squares(keep func(Occupant) bool) []Square {
	var out []Square
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if keep(b.cells[r][c]) {
				out = append(out, Square{Row: r, Col: c})
			}
		}
	}
	return out
}

// Count returns how many occupants belong to side.
func (b *Board) Count(side Side) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if o := b.cells[r][c]; o.Present() && o.Side == side {
				n++
			}
		}
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	return len(b.Squares(Occupant.Present))
}

// FEN returns the piece-placement field of a FEN string for the grid.
// Only placement is meaningful here: the board carries no castling or
// en-passant state.
func (b *Board) FEN() string {
	return b.chessBoard().String()
}

// Draw renders the grid as a text diagram, rank 8 at the top.
func (b *Board) Draw() string {
	return b.chessBoard().Draw()
}

func (b *Board) chessBoard() *chess.Board {
	m := make(map[chess.Square]chess.Piece, 32)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			o := b.cells[r][c]
			if !o.Present() {
				continue
			}
			m[chessSquare(Square{Row: r, Col: c})] = chessPiece(o)
		}
	}
	return chess.NewBoard(m)
}

func chessSquare(sq Square) chess.Square {
	return chess.Square((Size-1-sq.Row)*Size + sq.Col)
}

var chessPieces = map[Occupant]chess.Piece{
	{White, King}:   chess.WhiteKing,
	{White, Queen}:  chess.WhiteQueen,
	{White, Rook}:   chess.WhiteRook,
	{White, Bishop}: chess.WhiteBishop,
	{White, Knight}: chess.WhiteKnight,
	{White, Pawn}:   chess.WhitePawn,
	{Black, King}:   chess.BlackKing,
	{Black, Queen}:  chess.BlackQueen,
	{Black, Rook}:   chess.BlackRook,
	{Black, Bishop}: chess.BlackBishop,
	{Black, Knight}: chess.BlackKnight,
	{Black, Pawn}:   chess.BlackPawn,
}

func chessPiece(o Occupant) chess.Piece {
	return chessPieces[o]
}
