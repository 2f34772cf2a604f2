package engine

// Terminal scores. A stalemate scores as a heavy loss rather than a draw,
// though not as heavy as being mated. The search applies it to the root side
// whichever side is stalemated, so the engine steers away from stalemating an
// opponent it is beating.
const (
	MateScore      = 100000.0
	StalemateScore = -50000.0
)

var pieceValues = [...]float64{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   1000,
}

// PieceValue is the material value of k in pawns.
func PieceValue(k PieceKind) float64 {
	if int(k) >= len(pieceValues) {
		return 0
	}
	return pieceValues[k]
}

var centerSquares = [4]Square{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 4, Y: 3}, {X: 4, Y: 4}}

type Weights struct {
	CheckPenalty      float64
	Mobility          float64
	Center            float64
	KingShieldBonus   float64
	KingShieldPenalty float64
}

func DefaultWeights() Weights {
	return Weights{
		CheckPenalty:      0.5,
		Mobility:          0.1,
		Center:            0.3,
		KingShieldBonus:   0.2,
		KingShieldPenalty: 0.1,
	}
}

type Evaluator struct {
	Weights Weights
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Weights: DefaultWeights()}
}

// Evaluate scores p from perspective's point of view; higher is better for
// perspective. The position is examined but left unchanged.
func (e *Evaluator) Evaluate(p *Position, perspective Color) float64 {
	score, _ := e.evaluate(p, perspective)
	return score
}

// evaluate also reports the terminal state that decided the score, or
// Ongoing when the positional terms were summed.
func (e *Evaluator) evaluate(p *Position, perspective Color) (float64, Status) {
	opponent := perspective.Opposite()
	if IsInCheck(p, opponent) && !HasLegalMoves(p, opponent) {
		return MateScore, Checkmate
	}
	inCheck := IsInCheck(p, perspective)
	mobility := len(AllLegalMoves(p, perspective))
	if mobility == 0 {
		if inCheck {
			return -MateScore, Checkmate
		}
		return StalemateScore, Stalemate
	}

	score := 0.0
	if inCheck {
		score -= e.Weights.CheckPenalty
	}
	score += material(p, perspective)
	score += float64(mobility) * e.Weights.Mobility
	score += e.center(p, perspective)
	score += e.kingSafety(p, perspective)
	return score, Ongoing
}

// Material is the signed material balance from perspective's side.
func Material(p *Position, perspective Color) float64 {
	return material(p, perspective)
}

func material(p *Position, perspective Color) float64 {
	score := 0.0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := p.board[y][x]
			if pc == nil {
				continue
			}
			if pc.Color == perspective {
				score += PieceValue(pc.Kind)
			} else {
				score -= PieceValue(pc.Kind)
			}
		}
	}
	return score
}

func (e *Evaluator) center(p *Position, perspective Color) float64 {
	score := 0.0
	for _, sq := range centerSquares {
		pc := p.Piece(sq)
		if pc == nil {
			continue
		}
		if pc.Color == perspective {
			score += e.Weights.Center
		} else {
			score -= e.Weights.Center
		}
	}
	return score
}

// kingSafety looks at the three squares in front of the king, in the
// direction its pawns advance.
func (e *Evaluator) kingSafety(p *Position, perspective Color) float64 {
	king, ok := p.KingSquare(perspective)
	if !ok {
		return 0
	}
	score := 0.0
	for dx := -1; dx <= 1; dx++ {
		sq := king.offset(dx, perspective.forward())
		if !sq.Valid() {
			continue
		}
		if pc := p.Piece(sq); pc != nil && pc.Kind == Pawn && pc.Color == perspective {
			score += e.Weights.KingShieldBonus
		} else {
			score -= e.Weights.KingShieldPenalty
		}
	}
	return score
}
