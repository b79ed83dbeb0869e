package match

import "github.com/Garsondee/Board-Sense/internal/board"

// IsLegal is the whole move gate: the source must hold an occupant belonging
// to the side on move. Destination, path and role geometry are not checked,
// so a pawn may land anywhere.
func IsLegal(src board.Occupant, onMove board.Side) bool {
	return src.Present() && board.SideOf(src) == onMove
}
