package engine

import (
	"fmt"

	"github.com/notnil/chess"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var kindsFromChess = map[chess.PieceType]PieceKind{
	chess.Pawn:   Pawn,
	chess.Knight: Knight,
	chess.Bishop: Bishop,
	chess.Rook:   Rook,
	chess.Queen:  Queen,
	chess.King:   King,
}

var kindsToChess = map[PieceKind]chess.PieceType{
	Pawn:   chess.Pawn,
	Knight: chess.Knight,
	Bishop: chess.Bishop,
	Rook:   chess.Rook,
	Queen:  chess.Queen,
	King:   chess.King,
}

// ParseFEN builds a Position from the placement and side-to-move fields of a
// FEN record. Castling and en-passant fields are accepted but carry no
// meaning here. Pawns off their starting rank are marked as moved. A side
// left in check while its opponent is to move is rejected.
func ParseFEN(fen string) (*Position, Color, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, White, fmt.Errorf("parse fen: %w: %w", ErrInvalidPosition, err)
	}
	src := chess.NewGame(opt).Position()

	p := NewPosition()
	for sq, pc := range src.Board().SquareMap() {
		kind, ok := kindsFromChess[pc.Type()]
		if !ok {
			continue
		}
		color := White
		if pc.Color() == chess.Black {
			color = Black
		}
		at := Square{X: int(sq.File()), Y: int(sq.Rank())}
		p.Set(at, &Piece{
			Kind:     kind,
			Color:    color,
			HasMoved: kind == Pawn && at.Y != pawnStartRank(color),
		})
	}
	if err := p.Validate(); err != nil {
		return nil, White, fmt.Errorf("parse fen: %w", err)
	}

	turn := White
	if src.Turn() == chess.Black {
		turn = Black
	}
	if IsInCheck(p, turn.Opposite()) {
		return nil, White, fmt.Errorf("parse fen: %w: %s is in check but not to move", ErrInvalidPosition, turn.Opposite())
	}
	return p, turn, nil
}

// FEN renders the position with turn to move. No castling or en-passant
// rights are ever reported.
func (p *Position) FEN(turn Color) string {
	squares := make(map[chess.Square]chess.Piece)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := p.board[y][x]
			if pc == nil {
				continue
			}
			color := chess.White
			if pc.Color == Black {
				color = chess.Black
			}
			squares[chess.NewSquare(chess.File(x), chess.Rank(y))] = chess.NewPiece(kindsToChess[pc.Kind], color)
		}
	}
	side := "w"
	if turn == Black {
		side = "b"
	}
	return fmt.Sprintf("%s %s - - 0 %d", chess.NewBoard(squares).String(), side, p.ply/2+1)
}
