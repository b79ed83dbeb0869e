package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

var (
	textWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	textShadow = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// drawLabel draws s at (x, y) with a one-pixel shadow so it stays readable
// over both square colours.
func drawLabel(screen *ebiten.Image, s string, x, y int) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x+1), float64(y+1))
	op.ColorScale.ScaleWithColor(textShadow)
	text.Draw(screen, s, hudFace, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(textWhite)
	text.Draw(screen, s, hudFace, op)
}

// turnLabel is the status line, e.g. "White's turn".
func turnLabel(s match.Snapshot) string {
	return s.OnMove.Label() + "'s turn"
}

// thinkingLabel is the countdown shown while the automated side waits,
// truncated to whole seconds.
func thinkingLabel(left time.Duration) string {
	return fmt.Sprintf("CPU Thinking: %ds", int(left/time.Second))
}

// drawStatus renders the turn line and, while thinking, the countdown.
func (g *Game) drawStatus(screen *ebiten.Image, s match.Snapshot) {
	px := g.boardPx()
	drawLabel(screen, turnLabel(s), px/4, px-30)
	if s.Phase == match.AutomatedThinking {
		drawLabel(screen, thinkingLabel(s.ThinkingLeft), px/2-100, px-50)
	}
}

// drawHUD renders the session line and key legend in the top-left corner.
func (g *Game) drawHUD(screen *ebiten.Image, s match.Snapshot) {
	lines := []string{
		fmt.Sprintf("%s  %s  rating %d", s.Session.Name, s.Config.Mode, s.Config.Rating),
		fmt.Sprintf("moves: %d", s.Moves),
		"[N] new  [C] copy FEN  [H] log",
	}

	const lineH = 12
	const charW = 6
	const padX = 4
	const padY = 3

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	vector.FillRect(screen, 2, 2, boxW, boxH, color.RGBA{R: 20, G: 16, B: 12, A: 200}, false)
	vector.StrokeRect(screen, 2, 2, boxW, boxH, 1.0, color.RGBA{R: 120, G: 90, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 2+padX, 2+padY+i*lineH)
	}
}
