package engine

import (
	"context"
	"testing"
)

func applyMove(t *testing.T, p *Position, m Move) Record {
	t.Helper()
	rec, err := p.ApplyMove(m.From, m.To)
	if err != nil {
		t.Fatalf("ApplyMove(%s): %v", m, err)
	}
	return rec
}

func isLegal(p *Position, c Color, m Move) bool {
	for _, legal := range AllLegalMoves(p, c) {
		if legal == m {
			return true
		}
	}
	return false
}

func TestSearchFindsMateInOne(t *testing.T) {
	const fen = "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1"
	for _, depth := range []int{1, 2, 3} {
		p, turn := mustFEN(t, fen)
		r := NewSearcher(nil).Search(context.Background(), p, turn, depth)
		if !r.Found || !r.Complete {
			t.Fatalf("depth %d: incomplete result %+v", depth, r)
		}
		if r.Score != MateScore {
			t.Fatalf("depth %d: score %v want %v", depth, r.Score, MateScore)
		}
		applyMove(t, p, r.Move)
		if !IsCheckmate(p, Black) {
			t.Fatalf("depth %d: %s does not mate\n%s", depth, r.Move, p)
		}
	}
}

func TestSearchTakesHangingQueen(t *testing.T) {
	const fen = "k6q/8/8/8/8/8/8/4K2R w - - 0 1"
	for _, depth := range []int{1, 2} {
		p, turn := mustFEN(t, fen)
		m, ok := NewSearcher(nil).BestMove(context.Background(), p, turn, depth)
		if !ok {
			t.Fatalf("depth %d: no move", depth)
		}
		if m.String() != "h1h8" {
			t.Fatalf("depth %d: got %s want h1h8", depth, m)
		}
	}
}

func TestSearchAvoidsStalematingOpponent(t *testing.T) {
	// Nxh2 wins the last black piece but leaves the king on a8 without a move.
	const fen = "k7/2K5/1P6/8/8/5N2/7n/8 w - - 0 1"
	for _, depth := range []int{1, 2, 3} {
		p, turn := mustFEN(t, fen)
		r := NewSearcher(nil).Search(context.Background(), p, turn, depth)
		if !r.Found || !r.Complete {
			t.Fatalf("depth %d: incomplete result %+v", depth, r)
		}
		if r.Move.String() == "f3h2" || r.Score <= StalemateScore {
			t.Fatalf("depth %d: chose %s scoring %v", depth, r.Move, r.Score)
		}
		applyMove(t, p, r.Move)
		if IsStalemate(p, Black) {
			t.Fatalf("depth %d: %s stalemates black\n%s", depth, r.Move, p)
		}
	}
}

func TestStalemateLeafScoresAgainstRoot(t *testing.T) {
	p, _ := mustFEN(t, "k7/2K5/1P6/8/8/5N2/7n/8 w - - 0 1")
	s := NewSearcher(nil)
	p.Make(Move{From: mustSquare(t, "f3"), To: mustSquare(t, "h2")})
	if !IsStalemate(p, Black) {
		t.Fatalf("expected black to be stalemated\n%s", p)
	}
	if got := s.leaf(&searchState{root: White}, p, Black); got != StalemateScore {
		t.Fatalf("stalemated opponent: got %v want %v", got, StalemateScore)
	}
	if got := s.leaf(&searchState{root: Black}, p, Black); got != StalemateScore {
		t.Fatalf("stalemated root: got %v want %v", got, StalemateScore)
	}
}

func TestSearchIsDeterministicAndRestoresPosition(t *testing.T) {
	p, turn := mustFEN(t, fixtureFENs[1])
	snapshot := p.Clone()
	s := NewSearcher(nil)
	first := s.Search(context.Background(), p, turn, 2)
	if !p.Equal(snapshot) {
		t.Fatalf("search modified the position")
	}
	second := s.Search(context.Background(), p, turn, 2)
	if first != second {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
	if !isLegal(p, turn, first.Move) {
		t.Fatalf("%s is not legal", first.Move)
	}
}

func TestPruningDoesNotChangeResult(t *testing.T) {
	const fen = "4k3/8/8/3q4/8/2N5/8/4K2R w - - 0 1"
	depths := []int{1, 2}
	if !testing.Short() {
		depths = append(depths, 3)
	}
	for _, depth := range depths {
		p, turn := mustFEN(t, fen)
		pruned := NewSearcher(nil)
		full := NewSearcher(nil)
		full.Options = Options{}

		a := pruned.Search(context.Background(), p, turn, depth)
		b := full.Search(context.Background(), p, turn, depth)
		if a.Move != b.Move || a.Score != b.Score {
			t.Fatalf("depth %d: pruned %s %v, full %s %v", depth, a.Move, a.Score, b.Move, b.Score)
		}
		if a.Nodes > b.Nodes {
			t.Fatalf("depth %d: pruning visited more nodes (%d > %d)", depth, a.Nodes, b.Nodes)
		}
	}
}

func TestCaptureOrderingDoesNotChangeResult(t *testing.T) {
	p, turn := mustFEN(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w - - 0 1")
	ordered := NewSearcher(nil)
	plain := NewSearcher(nil)
	plain.Options.OrderCaptures = false

	a := ordered.Search(context.Background(), p, turn, 2)
	b := plain.Search(context.Background(), p, turn, 2)
	if a.Move != b.Move || a.Score != b.Score {
		t.Fatalf("ordered %s %v, plain %s %v", a.Move, a.Score, b.Move, b.Score)
	}
	// Qxf7# is on the board.
	if a.Move.String() != "h5f7" || a.Score != MateScore {
		t.Fatalf("expected h5f7 mate, got %s %v", a.Move, a.Score)
	}
}

func TestSearchWithoutMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"stalemate", stalemateFEN},
		{"checkmate", foolsMateFEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, turn := mustFEN(t, tt.fen)
			if _, ok := NewSearcher(nil).BestMove(context.Background(), p, turn, 3); ok {
				t.Fatalf("expected no move")
			}
		})
	}
}

func TestSearchCancelledStillReturnsLegalMove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := StartingPosition()
	r := NewSearcher(nil).Search(ctx, p, White, 4)
	if !r.Found {
		t.Fatalf("expected a fallback move")
	}
	if r.Complete {
		t.Fatalf("cancelled search reported complete")
	}
	if !isLegal(p, White, r.Move) {
		t.Fatalf("%s is not legal", r.Move)
	}
	if !p.Equal(StartingPosition()) {
		t.Fatalf("cancelled search left the position modified")
	}
}

func TestSearchDepthZeroEvaluatesEachMove(t *testing.T) {
	p, turn := mustFEN(t, "k6q/8/8/8/8/8/8/4K2R w - - 0 1")
	r := NewSearcher(nil).Search(context.Background(), p, turn, 0)
	if !r.Found || r.Move.String() != "h1h8" {
		t.Fatalf("got %+v", r)
	}
}

func TestOrderCapturesPutsBestVictimFirst(t *testing.T) {
	p, _ := mustFEN(t, "4k3/8/8/2q1r3/3P4/8/8/4K3 w - - 0 1")
	moves := []Move{
		{From: mustSquare(t, "d4"), To: mustSquare(t, "d5")},
		{From: mustSquare(t, "d4"), To: mustSquare(t, "e5")},
		{From: mustSquare(t, "d4"), To: mustSquare(t, "c5")},
	}
	orderCaptures(p, moves)
	got := []string{moves[0].String(), moves[1].String(), moves[2].String()}
	want := []string{"d4c5", "d4e5", "d4d5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}
