package engine

func kingSquare(color Color, board *Board) (Square, bool) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if p := board[r][c]; p != nil && p.Kind == King && p.Color == color {
				return Square{Row: r, Col: c}, true
			}
		}
	}
	return Square{}, false
}

// IsInCheck reports whether color's king is attacked on the given board.
// A board with no king of that color reports true; that state is unreachable
// through ApplyMove and the fail-safe keeps the legal-move filter from ever
// endorsing a king-loss line.
func IsInCheck(color Color, board *Board) bool {
	king, ok := kingSquare(color, board)
	if !ok {
		return true
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := board[r][c]
			if p == nil || p.Color == color {
				continue
			}
			for _, to := range PseudoLegalMoves(Square{Row: r, Col: c}, board) {
				if to == king {
					return true
				}
			}
		}
	}
	return false
}
