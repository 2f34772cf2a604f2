package model

import (
	"github.com/benbeisheim/chess-engine-backend/internal/engine"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func pieceTypeOf(k engine.PieceKind) PieceType {
	return PieceType(k.String())
}

// BoardState is the client view of the board. Board[0] is rank 8 and
// Board[0][0] is a8, the way a board is drawn for White.
type BoardState struct {
	Board             [][]*Piece `json:"board"`
	WhiteKingPosition string     `json:"whiteKingPosition"`
	BlackKingPosition string     `json:"blackKingPosition"`
}

type Piece struct {
	Type       PieceType    `json:"type"`
	Color      engine.Color `json:"color"`
	Position   string       `json:"position"`
	HasMoved   bool         `json:"hasMoved"`
	Threatened bool         `json:"threatened"`
}

func newPiece(pc engine.Piece, sq engine.Square) Piece {
	return Piece{
		Type:     pieceTypeOf(pc.Kind),
		Color:    pc.Color,
		Position: sq.String(),
		HasMoved: pc.HasMoved,
	}
}

func newBoardState(pos *engine.Position) *BoardState {
	threatened := make(map[engine.Square]bool)
	for _, c := range []engine.Color{engine.White, engine.Black} {
		for _, sq := range engine.ThreatenedPieces(pos, c) {
			threatened[sq] = true
		}
	}

	board := &BoardState{}
	grid := pos.Grid()
	for row := 0; row < 8; row++ {
		rank := make([]*Piece, 8)
		for x := 0; x < 8; x++ {
			pc := grid[row][x]
			if pc == nil {
				continue
			}
			sq := engine.Square{X: x, Y: 7 - row}
			p := newPiece(*pc, sq)
			p.Threatened = threatened[sq]
			rank[x] = &p
		}
		board.Board = append(board.Board, rank)
	}
	if sq, ok := pos.KingSquare(engine.White); ok {
		board.WhiteKingPosition = sq.String()
	}
	if sq, ok := pos.KingSquare(engine.Black); ok {
		board.BlackKingPosition = sq.String()
	}
	return board
}
