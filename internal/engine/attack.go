package engine

import "fmt"

// IsSquareAttacked reports whether any piece of byColor has sq among its
// attacking squares. Rays are walked outward from sq, so the result matches
// scanning every attacker's pseudo-legal destinations, except that pawns
// attack both forward diagonals whatever stands there.
func IsSquareAttacked(p *Position, sq Square, byColor Color) bool {
	if !sq.Valid() {
		return false
	}
	// A non-pawn never counts its own pieces as destinations.
	if occupant := p.Piece(sq); occupant == nil || occupant.Color != byColor {
		if slidingAttack(p, sq, byColor, rookDirs, Rook) || slidingAttack(p, sq, byColor, bishopDirs, Bishop) {
			return true
		}
		if stepAttack(p, sq, byColor, knightDirs, Knight) || stepAttack(p, sq, byColor, kingDirs, King) {
			return true
		}
	}
	dir := byColor.forward()
	for _, dx := range []int{-1, 1} {
		from := sq.offset(dx, -dir)
		if pc := p.Piece(from); pc != nil && pc.Color == byColor && pc.Kind == Pawn {
			return true
		}
	}
	return false
}

func slidingAttack(p *Position, sq Square, byColor Color, dirs []Square, kind PieceKind) bool {
	for _, dir := range dirs {
		target := sq.offset(dir.X, dir.Y)
		for target.Valid() {
			if pc := p.Piece(target); pc != nil {
				if pc.Color == byColor && (pc.Kind == kind || pc.Kind == Queen) {
					return true
				}
				break
			}
			target = target.offset(dir.X, dir.Y)
		}
	}
	return false
}

func stepAttack(p *Position, sq Square, byColor Color, dirs []Square, kind PieceKind) bool {
	for _, dir := range dirs {
		if pc := p.Piece(sq.offset(dir.X, dir.Y)); pc != nil && pc.Color == byColor && pc.Kind == kind {
			return true
		}
	}
	return false
}

// AttackingSquares lists the squares the piece on from attacks. It is the
// per-piece form of IsSquareAttacked, used for display and verification.
func AttackingSquares(p *Position, from Square) []Square {
	pc := p.Piece(from)
	if pc == nil {
		return nil
	}
	if pc.Kind != Pawn {
		return PseudoLegalMoves(p, from)
	}
	attacks := []Square{}
	for _, dx := range []int{-1, 1} {
		if target := from.offset(dx, pc.Color.forward()); target.Valid() {
			attacks = append(attacks, target)
		}
	}
	return attacks
}

// IsInCheck reports whether the king of color c is attacked. A position
// without that king violates the board invariant and panics.
func IsInCheck(p *Position, c Color) bool {
	king, ok := p.KingSquare(c)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrNoKing, c))
	}
	return IsSquareAttacked(p, king, c.Opposite())
}

// ThreatenedPieces returns the squares of c's pieces that the opponent
// currently attacks, kings included.
func ThreatenedPieces(p *Position, c Color) []Square {
	threatened := []Square{}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			sq := Square{X: x, Y: y}
			if pc := p.board[y][x]; pc != nil && pc.Color == c && IsSquareAttacked(p, sq, c.Opposite()) {
				threatened = append(threatened, sq)
			}
		}
	}
	return threatened
}
