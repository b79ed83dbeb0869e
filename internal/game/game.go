package game

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
)

var (
	lightSquare    = color.RGBA{R: 240, G: 217, B: 181, A: 255}
	darkSquare     = color.RGBA{R: 181, G: 136, B: 99, A: 255}
	selectedSquare = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// selectionWidth is the outline thickness of the selected cell.
const selectionWidth = 5

// Options configures the window host.
type Options struct {
	SquareSize  int
	Title       string
	AssetsDir   string
	ThinkBudget time.Duration
	Mode        match.Mode // empty shows the menu first
	Rating      int
	Seed        int64 // 0 seeds from the clock
	Recorder    match.Recorder
	Log         zerolog.Logger
}

// Game is the Ebiten host: it turns window input into coordinator events and
// draws the latest snapshot. Scenes are the menu (coord == nil) and play.
type Game struct {
	opts    Options
	log     zerolog.Logger
	sprites Sprites

	menu    *match.Menu
	coord   *match.Coordinator
	snap    match.Snapshot
	moveLog *MoveLog
	showLog bool

	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	setTitle func(string)
	now      func() time.Time
}

// frameInput is one frame of polled input, already edge-triggered.
type frameInput struct {
	cursorX int
	cursorY int
	pressed bool
	closing bool
	keys    map[ebiten.Key]bool
}

// New builds the host. With opts.Mode set the first game starts at once.
func New(opts Options) (*Game, error) {
	if opts.SquareSize <= 0 {
		opts.SquareSize = match.DefaultSquareSize
	}
	if opts.Rating == 0 {
		opts.Rating = match.DefaultRating
	}
	g := &Game{
		opts:     opts,
		log:      opts.Log.With().Str("component", "host").Logger(),
		moveLog:  NewMoveLog(),
		prevKeys: make(map[ebiten.Key]bool),
		setTitle: ebiten.SetWindowTitle,
		now:      time.Now,
	}
	g.sprites = LoadSprites(opts.AssetsDir, opts.SquareSize, g.log)
	g.toMenu()
	if opts.Mode != "" {
		if err := g.start(match.GameConfig{Mode: opts.Mode, Rating: opts.Rating}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) boardPx() int {
	return board.Size * g.opts.SquareSize
}

// Render stores the coordinator's latest snapshot for Draw.
func (g *Game) Render(s match.Snapshot) {
	g.snap = s
}

func (g *Game) start(cfg match.GameConfig) error {
	rngSeed := g.opts.Seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	copts := []match.Option{
		match.WithRenderer(g),
		match.WithLogger(g.opts.Log),
		match.WithThinkBudget(g.opts.ThinkBudget),
		match.WithSquareSize(g.opts.SquareSize),
		match.WithRandom(rand.New(rand.NewSource(rngSeed))), // #nosec G404 -- game only
		match.WithClock(g.now),
	}
	if g.opts.Recorder != nil {
		copts = append(copts, match.WithRecorder(g.opts.Recorder))
	}
	c, err := match.NewCoordinator(cfg, copts...)
	if err != nil {
		return err
	}
	g.coord = c
	g.snap = c.Snapshot(g.now())
	g.moveLog.Clear()
	g.setTitle(g.opts.Title + " — " + c.Session().Name)
	return nil
}

func (g *Game) toMenu() {
	g.coord = nil
	g.menu = match.NewMenu(g.boardPx(), g.boardPx())
	g.moveLog.Clear()
	g.setTitle(g.opts.Title)
}

func (g *Game) Update() error {
	return g.step(g.readInput(), g.now())
}

// readInput polls Ebiten. Keys and the left button are edge-triggered.
func (g *Game) readInput() frameInput {
	in := frameInput{keys: map[ebiten.Key]bool{}}
	in.cursorX, in.cursorY = ebiten.CursorPosition()
	in.closing = ebiten.IsWindowBeingClosed()

	currentKeys := map[ebiten.Key]bool{}
	for _, k := range []ebiten.Key{ebiten.KeyN, ebiten.KeyC, ebiten.KeyH} {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		if currentKeys[k] && !g.prevKeys[k] {
			in.keys[k] = true
		}
	}
	g.prevKeys = currentKeys

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.pressed = left && !g.prevMouseLeft
	g.prevMouseLeft = left
	return in
}

// step applies one frame of input. It returns ebiten.Termination once the
// window is closing.
func (g *Game) step(in frameInput, now time.Time) error {
	if g.coord == nil {
		if in.closing {
			g.log.Info().Msg("window closed from menu")
			return ebiten.Termination
		}
		g.menu.Move(in.cursorX, in.cursorY)
		if in.pressed {
			if cfg, ok := g.menu.Press(in.cursorX, in.cursorY); ok {
				return g.start(cfg)
			}
		}
		return nil
	}

	var events []match.Event
	if in.closing {
		events = append(events, match.Quit())
	}
	if in.pressed {
		events = append(events, match.PointerDown(in.cursorX, in.cursorY))
	}
	d, _ := g.coord.Advance(events, now)
	if d.Quit {
		return ebiten.Termination
	}
	for _, r := range d.Relocations {
		g.moveLog.Add(r)
	}

	switch {
	case in.keys[ebiten.KeyN]:
		g.log.Info().Str("session", g.coord.Session().ID).Msg("new game requested")
		g.toMenu()
	case in.keys[ebiten.KeyC]:
		fen := g.snap.Board.FEN()
		if err := setClipboardText(fen); err != nil {
			g.log.Warn().Err(err).Msg("clipboard unavailable")
		} else {
			g.log.Info().Str("fen", fen).Msg("position copied")
		}
	case in.keys[ebiten.KeyH]:
		g.showLog = !g.showLog
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.coord == nil {
		drawMenu(screen, g.menu)
		return
	}
	g.drawBoard(screen, g.snap)
	g.drawStatus(screen, g.snap)
	if g.showLog {
		g.moveLog.Draw(screen, g.boardPx()-logPanelWidth, g.boardPx())
		g.drawHUD(screen, g.snap)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image, s match.Snapshot) {
	size := g.opts.SquareSize
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			x, y := float32(c*size), float32(r*size)
			col := lightSquare
			if (r+c)%2 == 1 {
				col = darkSquare
			}
			vector.FillRect(screen, x, y, float32(size), float32(size), col, false)

			if s.Selection.Active && s.Selection.Square == (board.Square{Row: r, Col: c}) {
				// Stroke is centred on the path; inset it so the outline sits inside the cell.
				inset := float32(selectionWidth) / 2
				vector.StrokeRect(screen, x+inset, y+inset, float32(size)-selectionWidth, float32(size)-selectionWidth,
					selectionWidth, selectedSquare, false)
			}

			o, _ := s.Board.Get(board.Square{Row: r, Col: c})
			if img := g.sprites.For(o); img != nil {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(x), float64(y))
				screen.DrawImage(img, op)
			}
		}
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.boardPx(), g.boardPx()
}
