package engine

// Perft counts the leaf nodes of the legal move tree of the given depth with
// c to move. The position is restored before it returns.
func Perft(p *Position, c Color, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := AllLegalMoves(p, c)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		sm := p.Make(m)
		nodes += Perft(p, c.Opposite(), depth-1)
		p.Unmake(sm)
	}
	return nodes
}

// Divide splits Perft by root move.
func Divide(p *Position, c Color, depth int) map[Move]uint64 {
	div := make(map[Move]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range AllLegalMoves(p, c) {
		sm := p.Make(m)
		div[m] = Perft(p, c.Opposite(), depth-1)
		p.Unmake(sm)
	}
	return div
}
