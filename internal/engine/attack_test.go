package engine

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"
)

func TestIsSquareAttacked(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		sq   string
		by   Color
		want bool
	}{
		{"white pawn left diagonal", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "d5", White, true},
		{"white pawn right diagonal", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "f5", White, true},
		{"pawn does not attack forward", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "e5", White, false},
		{"pawn does not attack backward", "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1", "d3", White, false},
		{"black pawn attacks downward", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "e4", Black, true},
		{"black pawn not upward", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "c6", Black, false},
		{"pawn covers own piece", "4k3/8/8/3N4/4P3/8/8/4K3 w - - 0 1", "d5", White, true},
		{"rook does not cover own piece", "4k3/8/8/8/N7/8/8/R3K3 w - - 0 1", "a4", White, false},
		{"rook ray", "4k3/8/8/8/N7/8/8/R3K3 w - - 0 1", "a3", White, true},
		{"rook ray blocked", "4k3/8/8/8/8/8/p7/R3K3 w - - 0 1", "a3", White, false},
		{"rook hits blocker", "4k3/8/8/8/8/8/p7/R3K3 w - - 0 1", "a2", White, true},
		{"bishop long diagonal", "4k3/8/8/8/8/8/8/B3K3 w - - 0 1", "h8", White, true},
		{"queen as bishop", "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", "e5", White, true},
		{"knight jump over pieces", StartFEN, "f3", White, true},
		{"king neighbourhood", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d2", White, true},
		{"king range is one", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e3", White, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := mustFEN(t, tt.fen)
			sq := mustSquare(t, tt.sq)
			if got := IsSquareAttacked(p, sq, tt.by); got != tt.want {
				t.Fatalf("IsSquareAttacked(%s, %s) = %v want %v\n%s", tt.sq, tt.by, got, tt.want, p)
			}
		})
	}
}

func TestOffBoardSquareIsNeverAttacked(t *testing.T) {
	p := StartingPosition()
	for _, sq := range []Square{{X: -1, Y: 2}, {X: 8, Y: 2}, {X: 3, Y: 8}} {
		if IsSquareAttacked(p, sq, White) || IsSquareAttacked(p, sq, Black) {
			t.Fatalf("%+v reported as attacked", sq)
		}
	}
}

// Scanning every attacker's squares must agree with the reverse-ray lookup.
func TestAttackLookupMatchesAttackerScan(t *testing.T) {
	for _, fen := range fixtureFENs {
		p, _ := mustFEN(t, fen)
		for _, by := range []Color{White, Black} {
			var scanned [8][8]bool
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					from := Square{X: x, Y: y}
					if pc := p.Piece(from); pc == nil || pc.Color != by {
						continue
					}
					for _, sq := range AttackingSquares(p, from) {
						scanned[sq.Y][sq.X] = true
					}
				}
			}
			for x := 0; x < 8; x++ {
				for y := 0; y < 8; y++ {
					sq := Square{X: x, Y: y}
					if got := IsSquareAttacked(p, sq, by); got != scanned[y][x] {
						t.Fatalf("%s: %s attacked by %s: lookup %v scan %v", fen, sq, by, got, scanned[y][x])
					}
				}
			}
		}
	}
}

func TestIsInCheck(t *testing.T) {
	p, _ := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !IsInCheck(p, White) {
		t.Fatalf("white should be in check")
	}
	if IsInCheck(p, Black) {
		t.Fatalf("black should not be in check")
	}
	if IsInCheck(StartingPosition(), White) {
		t.Fatalf("no check at the start")
	}
}

func TestIsInCheckWithoutKingPanics(t *testing.T) {
	p := NewPosition()
	p.Set(Square{X: 4, Y: 7}, &Piece{Kind: King, Color: Black})
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoKing) {
			t.Fatalf("expected ErrNoKing, got %v", r)
		}
	}()
	IsInCheck(p, White)
}

func TestThreatenedPieces(t *testing.T) {
	p, _ := mustFEN(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if got := squareNames(ThreatenedPieces(p, White)); !slices.Equal(got, []string{"e4"}) {
		t.Fatalf("white threatened: got %v", got)
	}
	if got := squareNames(ThreatenedPieces(p, Black)); !slices.Equal(got, []string{"d5"}) {
		t.Fatalf("black threatened: got %v", got)
	}
	if got := ThreatenedPieces(StartingPosition(), White); len(got) != 0 {
		t.Fatalf("nothing is threatened at the start, got %v", got)
	}
}

func TestPawnAttackingSquaresAtEdge(t *testing.T) {
	p := StartingPosition()
	if got := squareNames(AttackingSquares(p, mustSquare(t, "a2"))); !slices.Equal(got, []string{"b3"}) {
		t.Fatalf("got %v want [b3]", got)
	}
	if got := squareNames(AttackingSquares(p, mustSquare(t, "e7"))); !slices.Equal(got, []string{"d6", "f6"}) {
		t.Fatalf("got %v want [d6 f6]", got)
	}
}
