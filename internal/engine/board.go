package engine

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

type PieceKind string

const (
	Pawn   PieceKind = "pawn"
	Rook   PieceKind = "rook"
	Knight PieceKind = "knight"
	Bishop PieceKind = "bishop"
	Queen  PieceKind = "queen"
	King   PieceKind = "king"
)

func (k PieceKind) fenLetter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Rook:
		return 'r'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Queen:
		return 'q'
	case King:
		return 'k'
	}
	return '?'
}

type Piece struct {
	Kind     PieceKind `json:"kind"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

// Square addresses the board with row 0 = rank 8 and col 0 = file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) onBoard() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

// String renders the square in algebraic form, e.g. "e4".
func (s Square) String() string {
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

// ParseSquare converts an algebraic square like "e4" to board coordinates.
func ParseSquare(s string) (Square, bool) {
	if len(s) != 2 {
		return Square{}, false
	}
	file := s[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, false
	}
	return Square{Row: 8 - int(rank-'0'), Col: int(file - 'a')}, true
}

type Board [8][8]*Piece

// PieceAt returns the piece on sq, or nil for empty or off-board squares.
func (b *Board) PieceAt(sq Square) *Piece {
	if !sq.onBoard() {
		return nil
	}
	return b[sq.Row][sq.Col]
}

// Clone produces a deep copy; simulated moves must never share piece
// pointers with the live board.
func (b *Board) Clone() *Board {
	var out Board
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if b[r][c] != nil {
				p := *b[r][c]
				out[r][c] = &p
			}
		}
	}
	return &out
}

var backRankLayout = [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newStartingBoard() *Board {
	board := &Board{}
	for col, kind := range backRankLayout {
		board[0][col] = &Piece{Kind: kind, Color: Black}
		board[7][col] = &Piece{Kind: kind, Color: White}
	}
	for col := 0; col < 8; col++ {
		board[1][col] = &Piece{Kind: Pawn, Color: Black}
		board[6][col] = &Piece{Kind: Pawn, Color: White}
	}
	return board
}
