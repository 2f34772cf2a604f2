package engine

import (
	"context"
	"math"

	"golang.org/x/exp/slices"
)

type Options struct {
	// Pruning enables alpha-beta cutoffs. Disabling it yields a plain
	// exhaustive minimax with identical results.
	Pruning bool
	// OrderCaptures searches captures first below the root. Root order is
	// never changed so ties resolve to the first generated move.
	OrderCaptures bool
}

func DefaultOptions() Options {
	return Options{Pruning: true, OrderCaptures: true}
}

// Searcher selects moves by depth-bounded minimax over a shared Position.
// It mutates the position while searching and restores it before returning,
// so the caller must hold the position exclusively for the whole call.
type Searcher struct {
	Evaluator *Evaluator
	Options   Options
}

func NewSearcher(eval *Evaluator) *Searcher {
	if eval == nil {
		eval = NewEvaluator()
	}
	return &Searcher{Evaluator: eval, Options: DefaultOptions()}
}

type Result struct {
	Move  Move    `json:"move"`
	Score float64 `json:"score"`
	Nodes uint64  `json:"nodes"`
	// Found is false only when the side to move has no legal moves.
	Found bool `json:"found"`
	// Complete is false when the context ended the search early; Move is
	// then the best root move whose subtree finished, or the first legal
	// move if none did.
	Complete bool `json:"complete"`
}

type searchState struct {
	ctx   context.Context
	root  Color
	nodes uint64
}

// BestMove returns the move Search picks, or false when c has no legal move.
func (s *Searcher) BestMove(ctx context.Context, p *Position, c Color, depth int) (Move, bool) {
	r := s.Search(ctx, p, c, depth)
	return r.Move, r.Found
}

func (s *Searcher) Search(ctx context.Context, p *Position, c Color, depth int) Result {
	moves := AllLegalMoves(p, c)
	if len(moves) == 0 {
		return Result{Complete: true}
	}

	st := &searchState{ctx: ctx, root: c}
	result := Result{Score: math.Inf(-1), Complete: true}
	for _, m := range moves {
		if ctx.Err() != nil {
			result.Complete = false
			break
		}
		sm := p.Make(m)
		score, ok := s.minimax(st, p, depth-1, false, math.Inf(-1), math.Inf(1))
		p.Unmake(sm)
		if !ok {
			result.Complete = false
			break
		}
		if score > result.Score {
			result.Score = score
			result.Move = m
			result.Found = true
		}
	}
	if !result.Found {
		result.Move = moves[0]
		result.Found = true
		result.Score = 0
	}
	result.Nodes = st.nodes
	return result
}

// minimax returns the score of p anchored to the root color. The bool is
// false when the context ended the search; the position is restored either way.
func (s *Searcher) minimax(st *searchState, p *Position, depth int, maximizing bool, alpha, beta float64) (float64, bool) {
	st.nodes++
	side := st.root
	if !maximizing {
		side = st.root.Opposite()
	}
	if depth <= 0 {
		return s.leaf(st, p, side), true
	}
	moves := AllLegalMoves(p, side)
	if len(moves) == 0 {
		return s.leaf(st, p, side), true
	}
	if s.Options.OrderCaptures {
		orderCaptures(p, moves)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			if st.ctx.Err() != nil {
				return best, false
			}
			sm := p.Make(m)
			score, ok := s.minimax(st, p, depth-1, false, alpha, beta)
			p.Unmake(sm)
			if !ok {
				return best, false
			}
			best = math.Max(best, score)
			alpha = math.Max(alpha, score)
			if s.Options.Pruning && beta <= alpha {
				break
			}
		}
		return best, true
	}

	best := math.Inf(1)
	for _, m := range moves {
		if st.ctx.Err() != nil {
			return best, false
		}
		sm := p.Make(m)
		score, ok := s.minimax(st, p, depth-1, true, alpha, beta)
		p.Unmake(sm)
		if !ok {
			return best, false
		}
		best = math.Min(best, score)
		beta = math.Min(beta, score)
		if s.Options.Pruning && beta <= alpha {
			break
		}
	}
	return best, true
}

// leaf evaluates from the side to move and converts the score to the root's
// point of view. A stalemate scores StalemateScore for the root whichever side
// is stalemated.
func (s *Searcher) leaf(st *searchState, p *Position, side Color) float64 {
	score, status := s.Evaluator.evaluate(p, side)
	if status == Stalemate {
		return StalemateScore
	}
	if side != st.root {
		return -score
	}
	return score
}

// orderCaptures moves captures to the front, most valuable victim first and
// cheapest attacker first among equal victims. Quiet moves keep their order.
func orderCaptures(p *Position, moves []Move) {
	key := func(m Move) float64 {
		victim := p.Piece(m.To)
		if victim == nil {
			return -1
		}
		return PieceValue(victim.Kind)*10 - PieceValue(p.Piece(m.From).Kind)/100
	}
	slices.SortStableFunc(moves, func(a, b Move) bool {
		return key(a) > key(b)
	})
}
