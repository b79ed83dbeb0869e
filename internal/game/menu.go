package game

import (
	"fmt"

	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// drawMenu renders the mode buttons and rating slider from the menu model.
func drawMenu(screen *ebiten.Image, m *match.Menu) {
	screen.Fill(textShadow)
	x, y := m.Origin()

	drawLabel(screen, "Choose Game Mode:", x, y)
	drawLabel(screen, "1. Player vs Player", x, y+50)
	drawLabel(screen, "2. Player vs CPU", x, y+100)
	drawLabel(screen, "Set ELO Rating:", x, y+150)

	sy := float32(y + 180)
	vector.FillRect(screen, float32(x), sy, float32(m.SliderWidth()), 10, textWhite, false)
	knob := float32(m.SliderKnobX())
	vector.FillCircle(screen, knob, sy+5, 10, textWhite, true)
	drawLabel(screen, fmt.Sprint(m.Rating()), int(knob)-20, int(sy)-20)
}
