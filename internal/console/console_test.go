package console

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/Garsondee/Board-Sense/internal/match"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// scriptReader replays lines and then reports io.EOF.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (r *scriptReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	l := r.lines[0]
	r.lines = r.lines[1:]
	return l, nil
}

func (r *scriptReader) SetPrompt(p string) {
	r.prompts = append(r.prompts, p)
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) sleep(d time.Duration)   { f.t = f.t.Add(d) }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestConsole(lines []string, opts Options) (*Console, *bytes.Buffer, *fakeClock) {
	out := &bytes.Buffer{}
	clk := &fakeClock{t: time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)}
	if opts.Seed == 0 {
		opts.Seed = 4
	}
	if opts.ThinkBudget == 0 {
		opts.ThinkBudget = 3 * time.Second
	}
	c := New(&scriptReader{lines: lines}, out, opts)
	c.now = clk.now
	c.sleep = clk.sleep
	return c, out, clk
}

func TestIntake_RepromptsUntilValid(t *testing.T) {
	r := &scriptReader{lines: []string{"chess", "cpu", "abc", "9000", "1500"}}
	out := &bytes.Buffer{}
	cfg, err := Intake(r, out, 1200)
	require.NoError(t, err)
	assert.Equal(t, match.GameConfig{Mode: match.ModeCPU, Rating: 1500}, cfg)
	assert.Contains(t, out.String(), "choose pvp or cpu")
	assert.Contains(t, out.String(), "rating must be a number")
	assert.Contains(t, out.String(), "invalid game config")
}

func TestIntake_DefaultRating(t *testing.T) {
	cfg, err := Intake(&scriptReader{lines: []string{"1", ""}}, io.Discard, 800)
	require.NoError(t, err)
	assert.Equal(t, match.GameConfig{Mode: match.ModePvP, Rating: 800}, cfg)
}

func TestIntake_EOFAborts(t *testing.T) {
	_, err := Intake(&scriptReader{lines: []string{"pvp"}}, io.Discard, 1200)
	assert.ErrorIs(t, err, ErrAborted)
}

func TestConsole_PvPMoveBySquareAndRowCol(t *testing.T) {
	c, out, _ := newTestConsole([]string{"pvp", "", "e2", "e4", "press 1 4", "press 3 4", "fen", "quit"}, Options{})
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR")
	assert.Contains(t, out.String(), "1. White pawn e2-e4")
	assert.Contains(t, out.String(), "2. Black pawn e7-e5")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestConsole_WaitLetsCPUMove(t *testing.T) {
	c, out, clk := newTestConsole([]string{"e2", "e4", "wait", "board"}, Options{Mode: match.ModeCPU})
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), "CPU Thinking: 2s")
	assert.Contains(t, out.String(), "2. Black (cpu)")
	assert.Equal(t, board.White, c.sink.last.OnMove)
	assert.True(t, clk.t.Sub(time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)) >= 3*time.Second)
}

func TestConsole_ElapsedBudgetHonouredOnNextCommand(t *testing.T) {
	c, out, clk := newTestConsole(nil, Options{Mode: match.ModeCPU})
	require.NoError(t, c.startGame(match.ModeCPU))
	require.NoError(t, c.Execute("e2"))
	require.NoError(t, c.Execute("e4"))
	clk.advance(5 * time.Second)
	require.NoError(t, c.Execute("fen"))
	assert.Contains(t, out.String(), "(cpu)")
	assert.Equal(t, 2, c.sink.last.Moves)
}

func TestConsole_PressWhileThinkingIgnored(t *testing.T) {
	c, _, _ := newTestConsole(nil, Options{Mode: match.ModeCPU})
	require.NoError(t, c.startGame(match.ModeCPU))
	require.NoError(t, c.Execute("e2"))
	require.NoError(t, c.Execute("e4"))
	require.NoError(t, c.Execute("a7"))
	assert.False(t, c.sink.last.Selection.Active)
	assert.Equal(t, match.AutomatedThinking, c.sink.last.Phase)
}

func TestConsole_OffBoardAndBadInput(t *testing.T) {
	c, _, _ := newTestConsole(nil, Options{Mode: match.ModePvP})
	require.NoError(t, c.startGame(match.ModePvP))
	require.NoError(t, c.Execute("press 9 9"))
	assert.False(t, c.sink.last.Selection.Active)
	assert.Error(t, c.Execute("press x 1"))
	assert.Error(t, c.Execute("castle"))
	assert.Error(t, c.Execute("press 1"))
}

func TestConsole_NewRunsIntakeAgain(t *testing.T) {
	c, out, _ := newTestConsole([]string{"e2", "e4", "new", "cpu", "2000", "board"}, Options{Mode: match.ModePvP})
	require.NoError(t, c.Run())
	assert.Equal(t, match.ModeCPU, c.coord.Config().Mode)
	assert.Equal(t, 2000, c.coord.Config().Rating)
	assert.Equal(t, 0, c.sink.last.Moves)
	assert.Contains(t, out.String(), "rating 2000")
}

func TestConsole_Help(t *testing.T) {
	c, out, _ := newTestConsole(nil, Options{Mode: match.ModePvP})
	require.NoError(t, c.startGame(match.ModePvP))
	require.NoError(t, c.Execute("help"))
	for _, name := range []string{"press", "wait", "board", "fen", "new", "quit"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestFormatBoard_MarksSelection(t *testing.T) {
	s := match.Snapshot{
		Board:     board.StandardLayout(),
		Selection: match.Selection{Square: board.Square{Row: 6, Col: 4}, Active: true},
	}
	got := FormatBoard(s)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "8  r  n  b  q  k  b  n  r  8", lines[1])
	assert.Equal(t, "2  P  P  P  P [P] P  P  P  2", lines[7])
	assert.Equal(t, "5  .  .  .  .  .  .  .  .  5", lines[4])
}

func TestStatusLine_Thinking(t *testing.T) {
	s := match.Snapshot{OnMove: board.Black, Phase: match.AutomatedThinking, ThinkingLeft: 1900 * time.Millisecond}
	assert.Equal(t, "Black's turn  CPU Thinking: 1s", StatusLine(s))
}
