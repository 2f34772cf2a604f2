package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSquare   = errors.New("square out of bounds")
	ErrEmptySquare     = errors.New("no piece at square")
	ErrInvalidPosition = errors.New("invalid position")
	ErrNoKing          = errors.New("no king on board")
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the y step a pawn of this color advances by.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

type PieceKind uint8

const (
	Pawn PieceKind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

func (k PieceKind) letter() string {
	switch k {
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Rook:
		return "R"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

type Piece struct {
	Kind     PieceKind `json:"kind"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) rune() rune {
	r := 'p'
	switch p.Kind {
	case Knight:
		r = 'n'
	case Bishop:
		r = 'b'
	case Rook:
		r = 'r'
	case Queen:
		r = 'q'
	case King:
		r = 'k'
	}
	if p.Color == White {
		r -= 'a' - 'A'
	}
	return r
}

// Square is a board coordinate. (0,0) is a1, X is the file and Y the rank.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Square) Valid() bool {
	return s.X >= 0 && s.X < 8 && s.Y >= 0 && s.Y < 8
}

func (s Square) offset(dx, dy int) Square {
	return Square{X: s.X + dx, Y: s.Y + dy}
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", s.X+'a', s.Y+1)
}

func (s Square) file() string {
	return fmt.Sprintf("%c", s.X+'a')
}

// ParseSquare reads a square in coordinate notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	sq := Square{X: int(strings.ToLower(s)[0]) - 'a', Y: int(s[1]) - '1'}
	if !sq.Valid() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// Position is the 8x8 board plus the ply counter. Board is indexed [y][x].
type Position struct {
	board [8][8]*Piece
	ply   int
}

func NewPosition() *Position {
	return &Position{}
}

// StartingPosition returns the standard initial setup with White on ranks 1-2.
func StartingPosition() *Position {
	p := NewPosition()
	back := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for x := 0; x < 8; x++ {
		p.board[0][x] = &Piece{Kind: back[x], Color: White}
		p.board[1][x] = &Piece{Kind: Pawn, Color: White}
		p.board[6][x] = &Piece{Kind: Pawn, Color: Black}
		p.board[7][x] = &Piece{Kind: back[x], Color: Black}
	}
	return p
}

// Piece returns the piece on sq, or nil for an empty or off-board square.
func (p *Position) Piece(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	return p.board[sq.Y][sq.X]
}

// Set places pc on sq; a nil piece clears the square.
func (p *Position) Set(sq Square, pc *Piece) {
	if !sq.Valid() {
		return
	}
	p.board[sq.Y][sq.X] = pc
}

func (p *Position) Ply() int {
	return p.ply
}

// KingSquare locates the king of color c.
func (p *Position) KingSquare(c Color) (Square, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pc := p.board[y][x]
			if pc != nil && pc.Kind == King && pc.Color == c {
				return Square{X: x, Y: y}, true
			}
		}
	}
	return Square{}, false
}

// SearchMove is a simulated move together with whatever it displaced, so
// Unmake can restore the board exactly.
type SearchMove struct {
	Move
	Captured *Piece
}

// Make moves the piece on m.From to m.To without touching HasMoved or the
// ply counter. It must be paired with Unmake.
func (p *Position) Make(m Move) SearchMove {
	sm := SearchMove{Move: m, Captured: p.board[m.To.Y][m.To.X]}
	p.board[m.To.Y][m.To.X] = p.board[m.From.Y][m.From.X]
	p.board[m.From.Y][m.From.X] = nil
	return sm
}

func (p *Position) Unmake(sm SearchMove) {
	p.board[sm.From.Y][sm.From.X] = p.board[sm.To.Y][sm.To.X]
	p.board[sm.To.Y][sm.To.X] = sm.Captured
}

// Record describes a permanently applied move so it can be reverted.
type Record struct {
	Move     Move   `json:"move"`
	Piece    Piece  `json:"piece"`
	Captured *Piece `json:"captured"`
	HadMoved bool   `json:"-"`
}

// ApplyMove commits a move: the moving piece is marked as moved and the ply
// counter advances. Legality is the caller's concern.
func (p *Position) ApplyMove(from, to Square) (Record, error) {
	if !from.Valid() || !to.Valid() {
		return Record{}, fmt.Errorf("apply %s%s: %w", from, to, ErrInvalidSquare)
	}
	pc := p.board[from.Y][from.X]
	if pc == nil {
		return Record{}, fmt.Errorf("apply %s%s: %w", from, to, ErrEmptySquare)
	}
	rec := Record{
		Move:     Move{From: from, To: to},
		Captured: p.board[to.Y][to.X],
		HadMoved: pc.HasMoved,
	}
	p.Make(rec.Move)
	pc.HasMoved = true
	rec.Piece = *pc
	p.ply++
	return rec, nil
}

// Revert undoes a move committed by ApplyMove. Records must be reverted in
// reverse order of application.
func (p *Position) Revert(rec Record) {
	p.Unmake(SearchMove{Move: rec.Move, Captured: rec.Captured})
	if pc := p.board[rec.Move.From.Y][rec.Move.From.X]; pc != nil {
		pc.HasMoved = rec.HadMoved
	}
	p.ply--
}

func (p *Position) Clone() *Position {
	c := &Position{ply: p.ply}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; pc != nil {
				cp := *pc
				c.board[y][x] = &cp
			}
		}
	}
	return c
}

// Equal reports whether both positions hold the same pieces on the same
// squares with the same ply count.
func (p *Position) Equal(o *Position) bool {
	if p.ply != o.ply {
		return false
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			a, b := p.board[y][x], o.board[y][x]
			if (a == nil) != (b == nil) {
				return false
			}
			if a != nil && *a != *b {
				return false
			}
		}
	}
	return true
}

// Validate checks that each side has exactly one king.
func (p *Position) Validate() error {
	var kings [2]int
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; pc != nil && pc.Kind == King {
				kings[pc.Color]++
			}
		}
	}
	for c, n := range kings {
		if n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidPosition, Color(c), n)
		}
	}
	return nil
}

// Grid returns the board as rows from rank 8 down to rank 1, for display.
func (p *Position) Grid() [8][8]*Piece {
	var g [8][8]*Piece
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; pc != nil {
				cp := *pc
				g[7-y][x] = &cp
			}
		}
	}
	return g
}

func (p *Position) String() string {
	var sb strings.Builder
	for y := 7; y >= 0; y-- {
		fmt.Fprintf(&sb, "%d ", y+1)
		for x := 0; x < 8; x++ {
			if pc := p.board[y][x]; pc != nil {
				sb.WriteRune(pc.rune())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	return sb.String()
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
