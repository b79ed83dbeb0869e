package match

import "github.com/Garsondee/Board-Sense/internal/board"

// SideStats tallies one side's activity over a match.
type SideStats struct {
	Selections  int
	Relocations int
	Overwrites  int // relocations that destroyed an occupant
	OwnLosses   int // overwrites that destroyed one of the mover's own occupants
	KingsTaken  int // overwrites that destroyed a king, either side's
}

// MatchStats aggregates what a headless match did.
type MatchStats struct {
	Sides       [2]SideStats
	Rejections  map[RejectReason]int
	EngineIdle  int
	LockedOut   bool
	LockoutTick int
}

// NewMatchStats returns empty stats.
func NewMatchStats() *MatchStats {
	return &MatchStats{Rejections: map[RejectReason]int{}}
}

// Side returns the tally for s.
func (ms *MatchStats) Side(s board.Side) *SideStats {
	return &ms.Sides[s]
}

// Total is the number of relocations by both sides.
func (ms *MatchStats) Total() int {
	return ms.Sides[board.White].Relocations + ms.Sides[board.Black].Relocations
}

// Observe folds one tick's delta into the stats. mover is the side that was
// on move before the tick, which owns any selection made during it.
func (ms *MatchStats) Observe(tick int, mover board.Side, d Delta, after Snapshot) {
	ms.Side(mover).Selections += len(d.Selections)
	for _, r := range d.Relocations {
		st := ms.Side(r.Side)
		st.Relocations++
		if r.Replaced.Present() {
			st.Overwrites++
			if r.Replaced.Side == r.Side {
				st.OwnLosses++
			}
			if r.Replaced.Role == board.King {
				st.KingsTaken++
			}
		}
	}
	for _, rj := range d.Rejections {
		ms.Rejections[rj.Reason]++
	}
	if d.EngineIdle {
		ms.EngineIdle++
	}
	if !ms.LockedOut && IsLockedOut(after) {
		ms.LockedOut = true
		ms.LockoutTick = tick
	}
}

// IsLockedOut reports whether s is stuck: a source is selected that the gate
// will never accept, and since nothing clears a selection except a completed
// move, no further press can change the game.
func IsLockedOut(s Snapshot) bool {
	if s.Phase != AwaitingDestination || !s.Selection.Active {
		return false
	}
	src, err := s.Board.Get(s.Selection.Square)
	if err != nil {
		return true
	}
	return !IsLegal(src, s.OnMove)
}
