package match

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Mode selects whether the automated side ever plays.
type Mode string

const (
	ModePvP Mode = "pvp" // two humans share the pointer
	ModeCPU Mode = "cpu" // human white against the engine
)

// Rating bounds and the value the menu starts at.
const (
	MinRating     = 50
	MaxRating     = 2500
	DefaultRating = 1200
)

// ErrInvalidConfig wraps every GameConfig validation failure.
var ErrInvalidConfig = errors.New("invalid game config")

// GameConfig is what the config intake hands the coordinator, once.
// Rating is stored and reported but the engine does not consult it.
type GameConfig struct {
	Mode   Mode `mapstructure:"mode" validate:"oneof=pvp cpu"`
	Rating int  `mapstructure:"rating" validate:"min=50,max=2500"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks mode and rating range.
func (c GameConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Menu layout, relative to the window's quarter point.
const (
	menuButtonWidth = 200
	menuPvPTop      = 50
	menuCPUTop      = 100
	menuSliderTop   = 150
	menuSliderBot   = 170
	menuButtonBot   = 150
)

// Menu is the pointer model of the mode/rating menu. Hosts feed it cursor
// motion and presses and draw it from its accessors.
type Menu struct {
	left   int
	top    int
	rating int
	done   bool
}

// NewMenu lays the menu out for a window of w x h pixels.
func NewMenu(w, h int) *Menu {
	return &Menu{left: w / 4, top: h / 4, rating: DefaultRating}
}

// Origin is the top-left anchor the menu text is drawn from.
func (m *Menu) Origin() (x, y int) {
	return m.left, m.top
}

// Rating is the value currently on the slider.
func (m *Menu) Rating() int {
	return m.rating
}

// SliderWidth is the slider's pixel width.
func (m *Menu) SliderWidth() int {
	return menuButtonWidth
}

// SliderKnobX is where the knob is drawn for the current rating.
func (m *Menu) SliderKnobX() int {
	frac := float64(m.rating-MinRating) / float64(MaxRating-MinRating)
	return m.left + int(math.Round(frac*menuButtonWidth))
}

// Move handles pointer motion; inside the slider band it sets the rating.
func (m *Menu) Move(x, y int) {
	if m.done || !m.inColumn(x) {
		return
	}
	if y < m.top+menuSliderTop || y > m.top+menuSliderBot {
		return
	}
	frac := float64(x-m.left) / menuButtonWidth
	m.rating = MinRating + int(math.Round(frac*(MaxRating-MinRating)))
}

// Press handles a pointer press. It returns the chosen config the first time
// a mode button is hit; every later press is ignored.
func (m *Menu) Press(x, y int) (GameConfig, bool) {
	if m.done || !m.inColumn(x) {
		return GameConfig{}, false
	}
	var mode Mode
	switch {
	case y >= m.top+menuPvPTop && y <= m.top+menuCPUTop:
		mode = ModePvP
	case y >= m.top+menuCPUTop && y <= m.top+menuButtonBot:
		mode = ModeCPU
	default:
		return GameConfig{}, false
	}
	m.done = true
	return GameConfig{Mode: mode, Rating: m.rating}, true
}

func (m *Menu) inColumn(x int) bool {
	return x >= m.left && x <= m.left+menuButtonWidth
}
