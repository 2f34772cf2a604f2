package engine

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/exp/slices"
)

func TestFENStartRoundTrip(t *testing.T) {
	p, turn := mustFEN(t, StartFEN)
	if turn != White {
		t.Fatalf("turn: got %s want white", turn)
	}
	if !p.Equal(StartingPosition()) {
		t.Fatalf("parsed start differs from StartingPosition:\n%s", p)
	}
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
	if got := p.FEN(White); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFENPlacementRoundTrip(t *testing.T) {
	for _, fen := range fixtureFENs {
		p, turn := mustFEN(t, fen)
		got := strings.Fields(p.FEN(turn))
		want := strings.Fields(fen)
		if got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("got %q want %q", p.FEN(turn), fen)
		}
	}
}

func TestFENMoveNumberFollowsPly(t *testing.T) {
	p := StartingPosition()
	applyMove(t, p, Move{From: mustSquare(t, "e2"), To: mustSquare(t, "e4")})
	applyMove(t, p, Move{From: mustSquare(t, "e7"), To: mustSquare(t, "e5")})
	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w - - 0 2"
	if got := p.FEN(White); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParseFENTurnAndPawnState(t *testing.T) {
	p, turn := mustFEN(t, "4k3/4p3/8/8/8/4P3/4P3/4K3 b - - 0 1")
	if turn != Black {
		t.Fatalf("turn: got %s want black", turn)
	}
	if p.Piece(mustSquare(t, "e2")).HasMoved {
		t.Fatalf("e2 pawn is on its start rank")
	}
	if !p.Piece(mustSquare(t, "e3")).HasMoved {
		t.Fatalf("e3 pawn must be marked as moved")
	}
	if p.Piece(mustSquare(t, "e7")).HasMoved {
		t.Fatalf("e7 pawn is on its start rank")
	}
	if got := squareNames(LegalMoves(p, mustSquare(t, "e3"))); !slices.Equal(got, []string{"e4"}) {
		t.Fatalf("e3 pawn moves: got %v", got)
	}
}

func TestParseFENRejects(t *testing.T) {
	for _, fen := range []string{
		"",
		"not a fen",
		"8/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/8 w - - 0 1",
		"4k3/4Q3/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/4q3/4K3 b - - 0 1",
	} {
		if _, _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidPosition) {
			t.Fatalf("ParseFEN(%q): expected ErrInvalidPosition, got %v", fen, err)
		}
	}
}
