package engine

import "strings"

// FEN serializes the position in a FEN-like form for display and prompt
// consumption. Castling rights, the en-passant target, and the move counters
// are not tracked, so the tail is always "- - 0 1"; the string is one-way
// and is not meant to round-trip.
func (g *GameState) FEN() string {
	var b strings.Builder
	for r := 0; r < 8; r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		empty := 0
		for c := 0; c < 8; c++ {
			p := g.Board[r][c]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			letter := p.Kind.fenLetter()
			if p.Color == White {
				letter -= 'a' - 'A'
			}
			b.WriteByte(letter)
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
	}
	b.WriteByte(' ')
	if g.ToMove == White {
		b.WriteByte('w')
	} else {
		b.WriteByte('b')
	}
	b.WriteString(" - - 0 1")
	return b.String()
}
