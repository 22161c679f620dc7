package engine

import "testing"

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, ok := ParseSquare(s)
	if !ok {
		t.Fatalf("ParseSquare(%q) failed", s)
	}
	return sq
}

func playScript(t *testing.T, g *GameState, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		m := Move{From: mustSquare(t, mv[:2]), To: mustSquare(t, mv[2:])}
		if !g.ApplyMove(m.From, m.To) {
			t.Fatalf("ApplyMove(%s) rejected", mv)
		}
	}
}

func containsSquare(moves []Square, sq Square) bool {
	for _, m := range moves {
		if m == sq {
			return true
		}
	}
	return false
}

func TestParseSquare(t *testing.T) {
	cases := map[string]Square{
		"a8": {Row: 0, Col: 0},
		"h1": {Row: 7, Col: 7},
		"e2": {Row: 6, Col: 4},
		"e4": {Row: 4, Col: 4},
	}
	for in, want := range cases {
		got, ok := ParseSquare(in)
		if !ok || got != want {
			t.Fatalf("ParseSquare(%q) = %v, %v; want %v", in, got, ok, want)
		}
		if got.String() != in {
			t.Fatalf("Square(%v).String() = %q; want %q", got, got.String(), in)
		}
	}
	for _, bad := range []string{"", "e", "e9", "i4", "e44", "E4"} {
		if _, ok := ParseSquare(bad); ok {
			t.Fatalf("ParseSquare(%q) accepted", bad)
		}
	}
}

func TestStartingPositionPawnMoves(t *testing.T) {
	g := NewGame()
	if g.ToMove != White {
		t.Fatalf("side to move at start = %s; want white", g.ToMove)
	}
	for col := 0; col < 8; col++ {
		from := Square{Row: 6, Col: col}
		moves := g.LegalMoves(from)
		if len(moves) != 2 {
			t.Fatalf("white pawn %s has %d moves; want 2", from, len(moves))
		}
		if !containsSquare(moves, Square{Row: 5, Col: col}) || !containsSquare(moves, Square{Row: 4, Col: col}) {
			t.Fatalf("white pawn %s moves = %v", from, moves)
		}
		// black pawns are not the side to move yet
		if n := len(g.LegalMoves(Square{Row: 1, Col: col})); n != 0 {
			t.Fatalf("black pawn on col %d has %d moves before white moved", col, n)
		}
	}
	playScript(t, g, "e2e4")
	for col := 0; col < 8; col++ {
		from := Square{Row: 1, Col: col}
		moves := g.LegalMoves(from)
		if len(moves) != 2 {
			t.Fatalf("black pawn %s has %d moves; want 2", from, len(moves))
		}
		if !containsSquare(moves, Square{Row: 2, Col: col}) || !containsSquare(moves, Square{Row: 3, Col: col}) {
			t.Fatalf("black pawn %s moves = %v", from, moves)
		}
	}
}

// Every move returned by LegalMoves must leave the mover's own king out of
// check, verified by re-simulating each candidate independently.
func TestNoSelfCheck(t *testing.T) {
	g := NewGame()
	script := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1", "f6e4"}
	for _, mv := range script {
		for r := 0; r < 8; r++ {
			for c := 0; c < 8; c++ {
				from := Square{Row: r, Col: c}
				p := g.PieceAt(from)
				if p == nil || p.Color != g.ToMove {
					continue
				}
				pseudo := PseudoLegalMoves(from, &g.Board)
				for _, to := range g.LegalMoves(from) {
					if !containsSquare(pseudo, to) {
						t.Fatalf("legal move %s%s not pseudo-legal", from, to)
					}
					board := g.Board.Clone()
					board[to.Row][to.Col] = board[from.Row][from.Col]
					board[from.Row][from.Col] = nil
					if IsInCheck(g.ToMove, board) {
						t.Fatalf("legal move %s%s leaves %s in check", from, to, g.ToMove)
					}
				}
			}
		}
		playScript(t, g, mv)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	playScript(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if g.Outcome != BlackWins {
		t.Fatalf("outcome after fool's mate = %s; want %s", g.Outcome, BlackWins)
	}
	if !IsInCheck(White, &g.Board) {
		t.Fatalf("white not in check after fool's mate")
	}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			from := Square{Row: r, Col: c}
			if p := g.PieceAt(from); p != nil && p.Color == White {
				if moves := g.LegalMoves(from); len(moves) != 0 {
					t.Fatalf("mated white piece on %s still has moves %v", from, moves)
				}
			}
		}
	}
	// outcome is permanent: nothing moves after the game is decided
	if g.ApplyMove(mustSquare(t, "f1"), mustSquare(t, "g2")) {
		t.Fatalf("move accepted after checkmate")
	}
}

func TestStalemate(t *testing.T) {
	g := &GameState{ToMove: White, Captured: []Piece{}, Outcome: InProgress}
	place := func(sq string, kind PieceKind, color Color) {
		s := mustSquare(t, sq)
		g.Board[s.Row][s.Col] = &Piece{Kind: kind, Color: color, HasMoved: true}
	}
	place("h8", King, Black)
	place("f7", King, White)
	place("g5", Queen, White)

	if !g.ApplyMove(mustSquare(t, "g5"), mustSquare(t, "g6")) {
		t.Fatalf("Qg6 rejected")
	}
	if IsInCheck(Black, &g.Board) {
		t.Fatalf("stalemated king must not be in check")
	}
	if g.Outcome != Draw {
		t.Fatalf("outcome = %s; want %s", g.Outcome, Draw)
	}
}

func castlingFixture(t *testing.T) *GameState {
	t.Helper()
	g := &GameState{ToMove: White, Captured: []Piece{}, Outcome: InProgress}
	place := func(sq string, kind PieceKind, color Color, moved bool) {
		s := mustSquare(t, sq)
		g.Board[s.Row][s.Col] = &Piece{Kind: kind, Color: color, HasMoved: moved}
	}
	place("e1", King, White, false)
	place("a1", Rook, White, false)
	place("h1", Rook, White, false)
	place("e8", King, Black, true)
	return g
}

func TestCastlingMovesRook(t *testing.T) {
	g := castlingFixture(t)
	moves := g.LegalMoves(mustSquare(t, "e1"))
	if !containsSquare(moves, mustSquare(t, "g1")) || !containsSquare(moves, mustSquare(t, "c1")) {
		t.Fatalf("castles missing from king moves: %v", moves)
	}
	if !g.ApplyMove(mustSquare(t, "e1"), mustSquare(t, "g1")) {
		t.Fatalf("kingside castle rejected")
	}
	if p := g.PieceAt(mustSquare(t, "f1")); p == nil || p.Kind != Rook || !p.HasMoved {
		t.Fatalf("rook did not land on f1: %+v", p)
	}
	if g.PieceAt(mustSquare(t, "h1")) != nil {
		t.Fatalf("rook still on h1 after castling")
	}
	if p := g.PieceAt(mustSquare(t, "g1")); p == nil || p.Kind != King {
		t.Fatalf("king not on g1 after castling")
	}
}

func TestCastlingThroughCheckRejected(t *testing.T) {
	g := castlingFixture(t)
	// black rook on f8 covers f1, the square the king passes through
	f8 := mustSquare(t, "f8")
	g.Board[f8.Row][f8.Col] = &Piece{Kind: Rook, Color: Black, HasMoved: true}

	moves := g.LegalMoves(mustSquare(t, "e1"))
	if containsSquare(moves, mustSquare(t, "g1")) {
		t.Fatalf("kingside castle offered through an attacked square")
	}
	// queenside path (d1, c1) is not covered and stays legal
	if !containsSquare(moves, mustSquare(t, "c1")) {
		t.Fatalf("queenside castle missing: %v", moves)
	}
	if !g.ApplyMove(mustSquare(t, "e1"), mustSquare(t, "c1")) {
		t.Fatalf("queenside castle rejected")
	}
	if p := g.PieceAt(mustSquare(t, "d1")); p == nil || p.Kind != Rook {
		t.Fatalf("rook did not land on d1")
	}
}

func TestCastlingOutOfCheckRejected(t *testing.T) {
	g := castlingFixture(t)
	// shift the black king to f8 and give check along the e-file
	e8, f8 := mustSquare(t, "e8"), mustSquare(t, "f8")
	g.Board[f8.Row][f8.Col] = g.Board[e8.Row][e8.Col]
	g.Board[e8.Row][e8.Col] = &Piece{Kind: Rook, Color: Black, HasMoved: true}

	moves := g.LegalMoves(mustSquare(t, "e1"))
	if containsSquare(moves, mustSquare(t, "g1")) || containsSquare(moves, mustSquare(t, "c1")) {
		t.Fatalf("castling offered while in check: %v", moves)
	}
}

func TestIllegalMoveLeavesStateUntouched(t *testing.T) {
	g := NewGame()
	attempts := [][2]string{
		{"e2", "e5"}, // pawn three forward
		{"d1", "h5"}, // queen through own pawn
		{"e7", "e5"}, // wrong side
		{"e4", "e5"}, // empty square
		{"b1", "b3"}, // knight to a non-knight square
	}
	before := g.FEN()
	for _, a := range attempts {
		if g.ApplyMove(mustSquare(t, a[0]), mustSquare(t, a[1])) {
			t.Fatalf("illegal move %s%s accepted", a[0], a[1])
		}
		if g.FEN() != before {
			t.Fatalf("board changed after rejected %s%s", a[0], a[1])
		}
		if g.ToMove != White || len(g.Captured) != 0 || g.Outcome != InProgress {
			t.Fatalf("state changed after rejected %s%s", a[0], a[1])
		}
	}
}

func TestCaptureOrderPreserved(t *testing.T) {
	g := NewGame()
	playScript(t, g, "e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5a5")
	if len(g.Captured) != 2 {
		t.Fatalf("captured = %d pieces; want 2", len(g.Captured))
	}
	if g.Captured[0].Kind != Pawn || g.Captured[0].Color != Black {
		t.Fatalf("first capture = %+v; want black pawn", g.Captured[0])
	}
	if g.Captured[1].Kind != Pawn || g.Captured[1].Color != White {
		t.Fatalf("second capture = %+v; want white pawn", g.Captured[1])
	}
}

func TestPromotionAlwaysQueen(t *testing.T) {
	g := &GameState{ToMove: White, Captured: []Piece{}, Outcome: InProgress}
	place := func(sq string, kind PieceKind, color Color) {
		s := mustSquare(t, sq)
		g.Board[s.Row][s.Col] = &Piece{Kind: kind, Color: color, HasMoved: true}
	}
	place("a7", Pawn, White)
	place("h1", King, White)
	place("h6", King, Black)

	if !g.ApplyMove(mustSquare(t, "a7"), mustSquare(t, "a8")) {
		t.Fatalf("promotion move rejected")
	}
	p := g.PieceAt(mustSquare(t, "a8"))
	if p == nil || p.Kind != Queen || p.Color != White {
		t.Fatalf("promoted piece = %+v; want white queen", p)
	}
}

func TestFENStartingPosition(t *testing.T) {
	g := NewGame()
	want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"
	if got := g.FEN(); got != want {
		t.Fatalf("FEN() = %q; want %q", got, want)
	}
	playScript(t, g, "e2e4")
	want = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b - - 0 1"
	if got := g.FEN(); got != want {
		t.Fatalf("FEN() after e4 = %q; want %q", got, want)
	}
}

func TestMissingKingCountsAsCheck(t *testing.T) {
	var board Board
	if !IsInCheck(White, &board) {
		t.Fatalf("empty board must report check for the kingless side")
	}
}
