package game

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 220
	logMaxEntries = 40
	logLineHeight = 14
)

// MoveEntry is a single line in the move log.
type MoveEntry struct {
	Number    int
	Side      board.Side
	Message   string
	Automated bool
}

// MoveLog is a ring buffer of recent relocations rendered as a side panel.
type MoveLog struct {
	entries []MoveEntry
	head    int
	count   int
}

// NewMoveLog creates a move log with a fixed capacity.
func NewMoveLog() *MoveLog {
	return &MoveLog{
		entries: make([]MoveEntry, logMaxEntries),
	}
}

// Add appends a relocation.
func (ml *MoveLog) Add(r match.Relocation) {
	msg := fmt.Sprintf("%s-%s %c", r.From, r.To, r.Moved.Glyph())
	if r.Replaced.Present() {
		msg += fmt.Sprintf(" x%c", r.Replaced.Glyph())
	}
	ml.entries[ml.head] = MoveEntry{
		Number:    r.Number,
		Side:      r.Side,
		Message:   msg,
		Automated: r.Automated,
	}
	ml.head = (ml.head + 1) % logMaxEntries
	if ml.count < logMaxEntries {
		ml.count++
	}
}

// Clear empties the log.
func (ml *MoveLog) Clear() {
	ml.head = 0
	ml.count = 0
}

// Recent returns entries in chronological order (oldest first).
func (ml *MoveLog) Recent() []MoveEntry {
	result := make([]MoveEntry, ml.count)
	for i := 0; i < ml.count; i++ {
		idx := (ml.head - ml.count + i + logMaxEntries) % logMaxEntries
		result[i] = ml.entries[idx]
	}
	return result
}

// Draw renders the panel flush against the right edge, newest at the bottom.
func (ml *MoveLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 20, G: 16, B: 12, A: 225}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 120, G: 90, B: 60, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 40, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "MOVES", panelX+8, 0)

	entries := ml.Recent()
	maxVisible := (panelH - 20) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 18
	for i, e := range entries {
		if i == len(entries)-1 {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 60, G: 45, B: 30, A: 160}, false)
		}
		dot := color.RGBA{R: 240, G: 230, B: 210, A: 255}
		if e.Side == board.Black {
			dot = color.RGBA{R: 30, G: 30, B: 30, A: 255}
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 4, 6, dot, false)

		tag := ""
		if e.Automated {
			tag = " cpu"
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%3d %s%s", e.Number, e.Message, tag), panelX+14, y)
		y += logLineHeight
	}
}
