package match

import (
	"fmt"
	"strings"
)

// MatchLogEntry is one recorded event during a headless match.
type MatchLogEntry struct {
	Tick     int
	Side     string  // "white", "black", or "--" for match-wide events
	Category string  // select, move, reject, turn, engine
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] white move     relocated       e2 → e4 white_pawn
func (e MatchLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-5s %-8s %-15s %s",
		e.Tick, e.Side, e.Category, e.Key, e.Value)
}

// MatchLog collects structured events from a headless match. It is unbounded
// and machine-readable, unlike the on-screen move log.
type MatchLog struct {
	entries []MatchLogEntry
	verbose bool
}

// NewMatchLog creates a MatchLog. Verbose logs also carry per-tick countdown
// entries.
func NewMatchLog(verbose bool) *MatchLog {
	return &MatchLog{verbose: verbose}
}

// Add records a new entry.
func (ml *MatchLog) Add(tick int, side, category, key, value string, numVal float64) {
	ml.entries = append(ml.entries, MatchLogEntry{
		Tick:     tick,
		Side:     side,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (ml *MatchLog) AddVerbose(tick int, side, category, key, value string, numVal float64) {
	if !ml.verbose {
		return
	}
	ml.Add(tick, side, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (ml *MatchLog) Entries() []MatchLogEntry {
	return ml.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (ml *MatchLog) Filter(category, key string) []MatchLogEntry {
	var out []MatchLogEntry
	for _, e := range ml.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count is len(Filter(category, key)).
func (ml *MatchLog) Count(category, key string) int {
	return len(ml.Filter(category, key))
}

// Has reports whether any entry matches category, key and contains
// valueSubstr in its Value.
func (ml *MatchLog) Has(category, key, valueSubstr string) bool {
	for _, e := range ml.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (ml *MatchLog) Format() string {
	var sb strings.Builder
	for _, e := range ml.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
