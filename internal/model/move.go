package model

import "time"

// WSMove is a move as sent by a client, in coordinate squares ("e2", "e4").
type WSMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Ply struct {
	Piece         Piece         `json:"piece"`
	From          string        `json:"from"`
	To            string        `json:"to"`
	CapturedPiece *Piece        `json:"capturedPiece"`
	Notation      string        `json:"notation"`
	Evaluation    float64       `json:"evaluation"`
	ThinkTime     time.Duration `json:"thinkTime"`
	Blunder       bool          `json:"blunder"`
}

// Move pairs White's ply with Black's reply. BlackPly is nil until Black has
// moved.
type Move struct {
	Number   int  `json:"number"`
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// pairPlies groups a flat ply list into numbered moves. The first ply is
// always White's.
func pairPlies(plies []Ply) []Move {
	moves := make([]Move, 0, (len(plies)+1)/2)
	for i := range plies {
		ply := plies[i]
		if i%2 == 0 {
			moves = append(moves, Move{Number: i/2 + 1, WhitePly: &ply})
			continue
		}
		moves[len(moves)-1].BlackPly = &ply
	}
	return moves
}
