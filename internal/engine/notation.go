package engine

import "strings"

// Notation writes m in short algebraic form ("Nf3", "exd5", "Qxf7#"). It must
// be called before m is applied; the position is examined and restored.
func Notation(p *Position, m Move) string {
	pc := p.Piece(m.From)
	if pc == nil {
		return m.String()
	}
	var sb strings.Builder
	sb.WriteString(pc.Kind.letter())
	capture := p.Piece(m.To) != nil
	if pc.Kind == Pawn {
		if capture {
			sb.WriteString(m.From.file())
		}
	} else {
		sb.WriteString(disambiguation(p, m, pc))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())

	sm := p.Make(m)
	switch Classify(p, pc.Color.Opposite()) {
	case Checkmate:
		sb.WriteByte('#')
	case Check:
		sb.WriteByte('+')
	}
	p.Unmake(sm)
	return sb.String()
}

// disambiguation returns the file, rank or full square of m.From when another
// piece of the same kind and color can also reach m.To.
func disambiguation(p *Position, m Move, pc *Piece) string {
	sameFile, sameRank, others := false, false, false
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			from := Square{X: x, Y: y}
			other := p.board[y][x]
			if from == m.From || other == nil || other.Kind != pc.Kind || other.Color != pc.Color {
				continue
			}
			for _, to := range LegalMoves(p, from) {
				if to != m.To {
					continue
				}
				others = true
				sameFile = sameFile || x == m.From.X
				sameRank = sameRank || y == m.From.Y
			}
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return m.From.file()
	case !sameRank:
		return m.From.String()[1:]
	}
	return m.From.String()
}
