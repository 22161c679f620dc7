package engine

type Outcome string

const (
	InProgress Outcome = "in_progress"
	WhiteWins  Outcome = "white_wins"
	BlackWins  Outcome = "black_wins"
	Draw       Outcome = "draw"
)

// Move is a candidate transition. Captures, castling and promotion are
// inferred from board contents when the move is applied, not stored here.
type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// GameState is the authoritative state of one match. It is a plain owned
// value: every match gets its own instance and all engine operations take it
// explicitly. Callers must serialize ApplyMove calls per instance.
type GameState struct {
	Board    Board   `json:"board"`
	ToMove   Color   `json:"toMove"`
	Captured []Piece `json:"captured"`
	Outcome  Outcome `json:"outcome"`
}

// NewGame returns the standard starting position with white to move.
func NewGame() *GameState {
	return &GameState{
		Board:    *newStartingBoard(),
		ToMove:   White,
		Captured: []Piece{},
		Outcome:  InProgress,
	}
}

// PieceAt returns the piece on sq, or nil for empty or off-board squares.
func (g *GameState) PieceAt(sq Square) *Piece {
	return g.Board.PieceAt(sq)
}

// LegalMoves returns the destinations the piece on from may actually play:
// pseudo-legal candidates minus any that leave the mover's own king in
// check. The result is empty unless the piece belongs to the side to move.
func (g *GameState) LegalMoves(from Square) []Square {
	piece := g.Board.PieceAt(from)
	if piece == nil || piece.Color != g.ToMove {
		return []Square{}
	}
	moves := []Square{}
	inCheckNow := IsInCheck(g.ToMove, &g.Board)
	for _, to := range PseudoLegalMoves(from, &g.Board) {
		if piece.Kind == King && abs(to.Col-from.Col) > 1 {
			if !g.castleIsLegal(from, to, inCheckNow) {
				continue
			}
		} else if !g.simulateIsSafe(from, to) {
			continue
		}
		moves = append(moves, to)
	}
	return moves
}

// simulateIsSafe applies from->to on a throwaway clone and reports whether
// the mover's king is left out of check.
func (g *GameState) simulateIsSafe(from, to Square) bool {
	board := g.Board.Clone()
	board[to.Row][to.Col] = board[from.Row][from.Col]
	board[from.Row][from.Col] = nil
	return !IsInCheck(g.ToMove, board)
}

// castleIsLegal enforces the from/through/to rule: the king may not castle
// out of, across, or into check. The rook hop itself never affects any of
// the three checks, so only the king is simulated.
func (g *GameState) castleIsLegal(from, to Square, inCheckNow bool) bool {
	if inCheckNow {
		return false
	}
	through := Square{Row: from.Row, Col: (from.Col + to.Col) / 2}
	return g.simulateIsSafe(from, through) && g.simulateIsSafe(from, to)
}

// ApplyMove validates and commits one move. It returns false, mutating
// nothing, when the move is illegal or the game is already decided. On
// success the side to move flips and the position is reclassified as
// in progress, checkmate, or stalemate.
func (g *GameState) ApplyMove(from, to Square) bool {
	if g.Outcome != InProgress {
		return false
	}
	legal := false
	for _, sq := range g.LegalMoves(from) {
		if sq == to {
			legal = true
			break
		}
	}
	if !legal {
		return false
	}

	piece := g.Board[from.Row][from.Col]
	if target := g.Board[to.Row][to.Col]; target != nil {
		g.Captured = append(g.Captured, *target)
	}
	g.Board[to.Row][to.Col] = piece
	g.Board[from.Row][from.Col] = nil
	piece.HasMoved = true

	// castling lands the rook beside the king
	if piece.Kind == King && abs(to.Col-from.Col) > 1 {
		rookFrom, rookTo := 0, 3
		if to.Col == 6 {
			rookFrom, rookTo = 7, 5
		}
		rook := g.Board[to.Row][rookFrom]
		g.Board[to.Row][rookFrom] = nil
		g.Board[to.Row][rookTo] = rook
		rook.HasMoved = true
	}

	// promotion is always to a queen
	if piece.Kind == Pawn && (to.Row == 0 || to.Row == 7) {
		piece.Kind = Queen
	}

	g.ToMove = g.ToMove.Opponent()

	if !g.hasAnyLegalMove(g.ToMove) {
		if IsInCheck(g.ToMove, &g.Board) {
			if g.ToMove == White {
				g.Outcome = BlackWins
			} else {
				g.Outcome = WhiteWins
			}
		} else {
			g.Outcome = Draw
		}
	}
	return true
}

func (g *GameState) hasAnyLegalMove(color Color) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := g.Board[r][c]
			if p == nil || p.Color != color {
				continue
			}
			if len(g.LegalMoves(Square{Row: r, Col: c})) > 0 {
				return true
			}
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
