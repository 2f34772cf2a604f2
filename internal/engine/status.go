package engine

import "fmt"

type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return "ongoing"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{Ongoing, Check, Checkmate, Stalemate} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Terminal reports whether the side to move has no legal moves.
func (s Status) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

func IsCheckmate(p *Position, c Color) bool {
	return IsInCheck(p, c) && !HasLegalMoves(p, c)
}

func IsStalemate(p *Position, c Color) bool {
	return !IsInCheck(p, c) && !HasLegalMoves(p, c)
}

// Classify computes the status of color c with a single check test and a
// single move scan. Callers should keep the result for the ply instead of
// asking IsCheckmate and IsStalemate separately.
func Classify(p *Position, c Color) Status {
	inCheck := IsInCheck(p, c)
	hasMoves := HasLegalMoves(p, c)
	switch {
	case inCheck && !hasMoves:
		return Checkmate
	case !hasMoves:
		return Stalemate
	case inCheck:
		return Check
	}
	return Ongoing
}
