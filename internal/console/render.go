package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/fatih/color"
)

var (
	whitePiece = color.New(color.FgHiBlue, color.Bold)
	blackPiece = color.New(color.FgRed, color.Bold)
	label      = color.New(color.FgCyan)
	selected   = color.New(color.FgHiGreen, color.Bold)
	warn       = color.New(color.FgYellow)
	failure    = color.New(color.FgRed)
)

// FormatBoard draws the grid rank 8 at the top, with file and rank labels.
// The selected cell is bracketed.
func FormatBoard(s match.Snapshot) string {
	var sb strings.Builder
	files := "   a  b  c  d  e  f  g  h\n"
	sb.WriteString(label.Sprint(files))
	for r := 0; r < board.Size; r++ {
		rank := fmt.Sprintf("%d ", board.Size-r)
		sb.WriteString(label.Sprint(rank))
		for c := 0; c < board.Size; c++ {
			sq := board.Square{Row: r, Col: c}
			o, _ := s.Board.Get(sq)
			cell := pieceCell(o)
			if s.Selection.Active && s.Selection.Square == sq {
				sb.WriteString(selected.Sprint("["))
				sb.WriteString(cell)
				sb.WriteString(selected.Sprint("]"))
				continue
			}
			sb.WriteString(" " + cell + " ")
		}
		sb.WriteString(label.Sprint(fmt.Sprintf(" %d", board.Size-r)))
		sb.WriteByte('\n')
	}
	sb.WriteString(label.Sprint(files))
	return sb.String()
}

func pieceCell(o board.Occupant) string {
	g := string(o.Glyph())
	switch {
	case !o.Present():
		return g
	case o.Side == board.White:
		return whitePiece.Sprint(g)
	default:
		return blackPiece.Sprint(g)
	}
}

// StatusLine is the turn indicator, plus the countdown while thinking.
func StatusLine(s match.Snapshot) string {
	turn := whitePiece.Sprint("White")
	if s.OnMove == board.Black {
		turn = blackPiece.Sprint("Black")
	}
	line := turn + "'s turn"
	if s.Phase == match.AutomatedThinking {
		line += "  " + warn.Sprintf("CPU Thinking: %ds", int(s.ThinkingLeft/time.Second))
	}
	if s.Selection.Active {
		line += "  selected " + selected.Sprint(s.Selection.Square.String())
	}
	return line
}

// DescribeRelocation is one move-log line.
func DescribeRelocation(r match.Relocation) string {
	who := r.Side.Label()
	if r.Automated {
		who += " (cpu)"
	}
	line := fmt.Sprintf("%3d. %s %s %s-%s", r.Number, who, r.Moved.Role, r.From, r.To)
	if r.Replaced.Present() {
		line += " x " + r.Replaced.ID()
	}
	return line
}

// snapshotSink keeps the latest snapshot handed over by the coordinator.
type snapshotSink struct {
	last match.Snapshot
}

func (s *snapshotSink) Render(snap match.Snapshot) {
	s.last = snap
}
