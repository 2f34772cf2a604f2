package model

import (
	"github.com/benbeisheim/chess-engine-backend/internal/engine"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// BlunderThreshold is how far a move may drop the mover's own evaluation
// before it is counted as a blunder.
const BlunderThreshold = 3.0

// Stats are per-side counters for a game in progress.
type Stats struct {
	Moves       int
	Captures    map[engine.PieceKind]int
	MaterialWon float64
	ChecksGiven int
	Blunders    int
}

type ClientStats struct {
	Moves       int            `json:"moves"`
	Captures    map[string]int `json:"captures"`
	Captured    []string       `json:"captured"`
	MaterialWon float64        `json:"materialWon"`
	ChecksGiven int            `json:"checksGiven"`
	Blunders    int            `json:"blunders"`
}

func newStats() Stats {
	return Stats{Captures: make(map[engine.PieceKind]int)}
}

func (s Stats) clone() Stats {
	c := s
	c.Captures = maps.Clone(s.Captures)
	return c
}

// record updates the counters for one ply. before and after are the
// mover's evaluations around the move.
func (s *Stats) record(captured *engine.Piece, status engine.Status, before, after float64) (blunder bool) {
	s.Moves++
	if captured != nil {
		s.Captures[captured.Kind]++
		s.MaterialWon += engine.PieceValue(captured.Kind)
	}
	if status == engine.Check || status == engine.Checkmate {
		s.ChecksGiven++
	}
	if before-after > BlunderThreshold {
		s.Blunders++
		return true
	}
	return false
}

func (s Stats) client() ClientStats {
	cs := ClientStats{
		Moves:       s.Moves,
		Captures:    make(map[string]int, len(s.Captures)),
		MaterialWon: s.MaterialWon,
		ChecksGiven: s.ChecksGiven,
		Blunders:    s.Blunders,
	}
	kinds := maps.Keys(s.Captures)
	slices.Sort(kinds)
	for _, k := range kinds {
		cs.Captures[k.String()] = s.Captures[k]
		cs.Captured = append(cs.Captured, k.String())
	}
	return cs
}
