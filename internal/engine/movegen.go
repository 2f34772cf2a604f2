package engine

var (
	rookDirs   = []Square{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	bishopDirs = []Square{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Square{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Square{{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1}}
)

// pawnStartRank is the rank a pawn of color c may double-step from.
func pawnStartRank(c Color) int {
	if c == White {
		return 1
	}
	return 6
}

// PseudoLegalMoves returns the destinations the piece on from can reach by its
// movement pattern, ignoring whether its own king is left in check.
func PseudoLegalMoves(p *Position, from Square) []Square {
	pc := p.Piece(from)
	if pc == nil {
		return nil
	}
	switch pc.Kind {
	case Pawn:
		return pawnMoves(p, from, pc)
	case Knight:
		return stepMoves(p, from, pc, knightDirs)
	case Bishop:
		return slideMoves(p, from, pc, bishopDirs, nil)
	case Rook:
		return slideMoves(p, from, pc, rookDirs, nil)
	case Queen:
		return slideMoves(p, from, pc, bishopDirs, slideMoves(p, from, pc, rookDirs, nil))
	case King:
		return stepMoves(p, from, pc, kingDirs)
	}
	return nil
}

func pawnMoves(p *Position, from Square, pc *Piece) []Square {
	moves := []Square{}
	dir := pc.Color.forward()
	one := from.offset(0, dir)
	if one.Valid() && p.Piece(one) == nil {
		moves = append(moves, one)
		two := from.offset(0, 2*dir)
		if !pc.HasMoved && from.Y == pawnStartRank(pc.Color) && two.Valid() && p.Piece(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dx := range []int{-1, 1} {
		target := from.offset(dx, dir)
		if !target.Valid() {
			continue
		}
		if victim := p.Piece(target); victim != nil && victim.Color != pc.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func stepMoves(p *Position, from Square, pc *Piece, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		target := from.offset(dir.X, dir.Y)
		if !target.Valid() {
			continue
		}
		if occupant := p.Piece(target); occupant == nil || occupant.Color != pc.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func slideMoves(p *Position, from Square, pc *Piece, dirs []Square, moves []Square) []Square {
	if moves == nil {
		moves = []Square{}
	}
	for _, dir := range dirs {
		target := from.offset(dir.X, dir.Y)
		for target.Valid() {
			occupant := p.Piece(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != pc.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.X, dir.Y)
		}
	}
	return moves
}

// LegalMoves returns the destinations of the piece on from that do not leave
// its own king in check. An empty square yields an empty result.
func LegalMoves(p *Position, from Square) []Square {
	pc := p.Piece(from)
	if pc == nil {
		return []Square{}
	}
	return filterLegal(p, from, pc.Color, PseudoLegalMoves(p, from))
}

// filterLegal simulates each candidate on the live position and keeps those
// that leave color's king safe. The position is restored after every trial move.
func filterLegal(p *Position, from Square, color Color, candidates []Square) []Square {
	legal := make([]Square, 0, len(candidates))
	for _, to := range candidates {
		sm := p.Make(Move{From: from, To: to})
		if !IsInCheck(p, color) {
			legal = append(legal, to)
		}
		p.Unmake(sm)
	}
	return legal
}

// AllLegalMoves enumerates every legal move of color, scanning files a to h
// and within each file ranks 1 to 8.
func AllLegalMoves(p *Position, c Color) []Move {
	moves := []Move{}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			from := Square{X: x, Y: y}
			pc := p.board[y][x]
			if pc == nil || pc.Color != c {
				continue
			}
			for _, to := range LegalMoves(p, from) {
				moves = append(moves, Move{From: from, To: to})
			}
		}
	}
	return moves
}

// HasLegalMoves stops at the first legal move found.
func HasLegalMoves(p *Position, c Color) bool {
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			from := Square{X: x, Y: y}
			pc := p.board[y][x]
			if pc == nil || pc.Color != c {
				continue
			}
			for _, to := range PseudoLegalMoves(p, from) {
				sm := p.Make(Move{From: from, To: to})
				safe := !IsInCheck(p, c)
				p.Unmake(sm)
				if safe {
					return true
				}
			}
		}
	}
	return false
}
