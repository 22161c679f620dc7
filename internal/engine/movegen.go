package engine

var (
	rookDirs   = []Square{{Row: 0, Col: 1}, {Row: 0, Col: -1}, {Row: 1, Col: 0}, {Row: -1, Col: 0}}
	bishopDirs = []Square{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	kingDirs   = append(append([]Square{}, rookDirs...), bishopDirs...)
	knightDirs = []Square{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
)

// PseudoLegalMoves returns the geometrically valid destinations for the piece
// on from, ignoring whether a move would expose its own king. Castling offers
// are included here without any check validation; the legal-move filter owns
// the from/through/to check rules.
func PseudoLegalMoves(from Square, board *Board) []Square {
	piece := board.PieceAt(from)
	if piece == nil {
		return nil
	}
	switch piece.Kind {
	case Pawn:
		return pawnMoves(from, piece, board)
	case Knight:
		return offsetMoves(from, piece, board, knightDirs)
	case Bishop:
		return slidingMoves(from, piece, board, bishopDirs)
	case Rook:
		return slidingMoves(from, piece, board, rookDirs)
	case Queen:
		return slidingMoves(from, piece, board, kingDirs)
	case King:
		return append(offsetMoves(from, piece, board, kingDirs), castleMoves(from, piece, board)...)
	}
	return nil
}

func pawnMoves(from Square, piece *Piece, board *Board) []Square {
	moves := []Square{}
	dir := -1 // white advances toward row 0
	if piece.Color == Black {
		dir = 1
	}
	oneStep := Square{Row: from.Row + dir, Col: from.Col}
	if oneStep.onBoard() && board.PieceAt(oneStep) == nil {
		moves = append(moves, oneStep)
		twoStep := Square{Row: from.Row + 2*dir, Col: from.Col}
		if !piece.HasMoved && twoStep.onBoard() && board.PieceAt(twoStep) == nil {
			moves = append(moves, twoStep)
		}
	}
	for _, dc := range []int{-1, 1} {
		capture := Square{Row: from.Row + dir, Col: from.Col + dc}
		if target := board.PieceAt(capture); target != nil && target.Color != piece.Color {
			moves = append(moves, capture)
		}
	}
	return moves
}

func offsetMoves(from Square, piece *Piece, board *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		to := Square{Row: from.Row + dir.Row, Col: from.Col + dir.Col}
		if !to.onBoard() {
			continue
		}
		if target := board.PieceAt(to); target == nil || target.Color != piece.Color {
			moves = append(moves, to)
		}
	}
	return moves
}

func slidingMoves(from Square, piece *Piece, board *Board, dirs []Square) []Square {
	moves := []Square{}
	for _, dir := range dirs {
		to := Square{Row: from.Row + dir.Row, Col: from.Col + dir.Col}
		for to.onBoard() {
			target := board.PieceAt(to)
			if target == nil {
				moves = append(moves, to)
			} else {
				if target.Color != piece.Color {
					moves = append(moves, to)
				}
				break
			}
			to = Square{Row: to.Row + dir.Row, Col: to.Col + dir.Col}
		}
	}
	return moves
}

func castleMoves(from Square, king *Piece, board *Board) []Square {
	if king.HasMoved {
		return nil
	}
	moves := []Square{}
	row := from.Row
	// kingside: rook on col 7 unmoved, cols 5-6 empty
	if rook := board.PieceAt(Square{Row: row, Col: 7}); rook != nil && rook.Kind == Rook && !rook.HasMoved {
		if board[row][5] == nil && board[row][6] == nil {
			moves = append(moves, Square{Row: row, Col: 6})
		}
	}
	// queenside: rook on col 0 unmoved, cols 1-3 empty
	if rook := board.PieceAt(Square{Row: row, Col: 0}); rook != nil && rook.Kind == Rook && !rook.HasMoved {
		if board[row][1] == nil && board[row][2] == nil && board[row][3] == nil {
			moves = append(moves, Square{Row: row, Col: 2})
		}
	}
	return moves
}
