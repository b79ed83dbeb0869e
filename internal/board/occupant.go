package board

import (
	"fmt"
	"strings"
)

// Side is one of the two competing parties.
type Side uint8

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "unknown"
	}
}

// Label is the capitalised name used on status lines ("White's turn").
func (s Side) Label() string {
	switch s {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

// Role is the kind of token. The zero Role marks an empty cell.
type Role uint8

const (
	NoRole Role = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

var roleNames = [...]string{
	NoRole: "",
	King:   "king",
	Queen:  "queen",
	Rook:   "rook",
	Bishop: "bishop",
	Knight: "knight",
	Pawn:   "pawn",
}

// glyphs are the FEN letters for white; black uses the lower case.
var glyphs = [...]byte{
	NoRole: '.',
	King:   'K',
	Queen:  'Q',
	Rook:   'R',
	Bishop: 'B',
	Knight: 'N',
	Pawn:   'P',
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Occupant is a token on the grid: a side and a role. The zero value is "no
// occupant" and is what empty cells hold.
type Occupant struct {
	Side Side
	Role Role
}

// None is the empty occupant.
var None Occupant

// Present reports whether o names a real token.
func (o Occupant) Present() bool {
	return o.Role != NoRole
}

// ID is the catalog identifier, e.g. "white_king". It doubles as the asset
// file stem. Empty for None.
func (o Occupant) ID() string {
	if !o.Present() {
		return ""
	}
	return o.Side.String() + "_" + o.Role.String()
}

func (o Occupant) String() string {
	if !o.Present() {
		return "empty"
	}
	return o.ID()
}

// Glyph is the single FEN letter for the occupant ('.' when empty).
func (o Occupant) Glyph() byte {
	g := glyphs[NoRole]
	if int(o.Role) < len(glyphs) {
		g = glyphs[o.Role]
	}
	if o.Present() && o.Side == Black {
		g += 'a' - 'A'
	}
	return g
}

// SideOf projects an occupant onto its side. Callers must only ask about
// present occupants; None reports White.
func SideOf(o Occupant) Side {
	return o.Side
}

var catalog = func() []Occupant {
	roles := []Role{King, Queen, Rook, Bishop, Knight, Pawn}
	out := make([]Occupant, 0, 2*len(roles))
	for _, s := range []Side{White, Black} {
		for _, r := range roles {
			out = append(out, Occupant{Side: s, Role: r})
		}
	}
	return out
}()

// Catalog returns all twelve occupants, white first, in king..pawn order.
func Catalog() []Occupant {
	out := make([]Occupant, len(catalog))
	copy(out, catalog)
	return out
}

// ParseOccupant resolves a catalog identifier such as "black_knight".
func ParseOccupant(id string) (Occupant, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, o := range catalog {
		if o.ID() == id {
			return o, nil
		}
	}
	return None, fmt.Errorf("unknown occupant %q", id)
}
