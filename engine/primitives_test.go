package engine

import "testing"

func TestSquareFromString(t *testing.T) {
	data := []struct {
		sq  Square
		str string
	}{
		{SquareA1, "a1"},
		{SquareF4, "f4"},
		{SquareE8, "e8"},
		{SquareH8, "h8"},
	}

	for _, d := range data {
		if got := d.sq.String(); got != d.str {
			t.Errorf("%v.String() = %q, want %q", d.sq, got, d.str)
		}
		sq, err := SquareFromString(d.str)
		if err != nil {
			t.Errorf("SquareFromString(%q) error: %v", d.str, err)
		}
		if sq != d.sq {
			t.Errorf("SquareFromString(%q) = %v, want %v", d.str, sq, d.sq)
		}
	}
}

func TestSquareFromStringRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "i1", "a9", "a0", "aa", "e44", "-"} {
		if _, err := SquareFromString(s); err == nil {
			t.Errorf("SquareFromString(%q) = nil error, want error", s)
		}
	}
}

func TestRankFile(t *testing.T) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			if sq.Rank() != r || sq.File() != f {
				t.Errorf("RankFile(%d, %d) round trip = (%d, %d)", r, f, sq.Rank(), sq.File())
			}
		}
	}
}

func checkPiece(t *testing.T, p Piece, c Color, k PieceKind) {
	t.Helper()
	if p.Color() != c || p.Kind() != k {
		t.Errorf("for %v expected %v %v, got %v %v", p, c, k, p.Color(), p.Kind())
	}
}

func TestNewPiece(t *testing.T) {
	for c := ColorMinValue; c <= ColorMaxValue; c++ {
		for k := PieceKindMinValue; k <= PieceKindMaxValue; k++ {
			checkPiece(t, NewPiece(c, k), c, k)
		}
	}
}

func TestPieceFromLetter(t *testing.T) {
	data := []struct {
		letter byte
		color  Color
		kind   PieceKind
	}{
		{'P', White, Pawn},
		{'p', Black, Pawn},
		{'N', White, Knight},
		{'k', Black, King},
		{'Q', White, Queen},
	}

	for _, d := range data {
		p, err := PieceFromLetter(d.letter)
		if err != nil {
			t.Fatalf("PieceFromLetter(%q) error: %v", d.letter, err)
		}
		checkPiece(t, p, d.color, d.kind)
		if got := p.Letter(); got != d.letter {
			t.Errorf("Letter() = %q, want %q", got, d.letter)
		}
	}

	if _, err := PieceFromLetter('x'); err == nil {
		t.Errorf("PieceFromLetter('x') = nil error, want error")
	}
}

func TestColorOther(t *testing.T) {
	if White.Other() != Black || Black.Other() != White {
		t.Errorf("Color.Other() is not its own inverse")
	}
}

func TestMoveEquality(t *testing.T) {
	a := Move{Source: SquareE2, Target: SquareE4}
	b := Move{Source: SquareE2, Target: SquareE4}
	c := Move{Source: SquareE2, Target: SquareE4, Promotion: Queen}

	if a != b {
		t.Errorf("identical moves compared unequal: %v != %v", a, b)
	}
	if a == c {
		t.Errorf("moves differing only by promotion compared equal: %v == %v", a, c)
	}
}

func TestParseMove(t *testing.T) {
	data := []struct {
		str string
		m   Move
	}{
		{"e2e4", Move{Source: SquareE2, Target: SquareE4}},
		{"e7e8q", Move{Source: SquareE7, Target: SquareE8, Promotion: Queen}},
		{"g7f8n", Move{Source: SquareG7, Target: SquareF8, Promotion: Knight}},
	}

	for _, d := range data {
		m, err := ParseMove(d.str)
		if err != nil {
			t.Fatalf("ParseMove(%q) error: %v", d.str, err)
		}
		if m != d.m {
			t.Errorf("ParseMove(%q) = %+v, want %+v", d.str, m, d.m)
		}
		if got := m.String(); got != d.str {
			t.Errorf("Move.String() = %q, want %q", got, d.str)
		}
	}

	if _, err := ParseMove("z9z9"); err == nil {
		t.Errorf("ParseMove(\"z9z9\") = nil error, want error")
	}
}

func TestBitboardPop(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareD4.Bitboard() | SquareH8.Bitboard()
	var got []Square
	for bb != 0 {
		got = append(got, bb.Pop())
	}

	want := []Square{SquareA1, SquareD4, SquareH8}
	if len(got) != len(want) {
		t.Fatalf("Pop produced %d squares, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Pop()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBitboardPopcnt(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareB2.Bitboard() | SquareC3.Bitboard()
	if got := bb.Popcnt(); got != 3 {
		t.Errorf("Popcnt() = %d, want 3", got)
	}
	if BbEmpty.Popcnt() != 0 {
		t.Errorf("Popcnt() of empty board != 0")
	}
}

func TestCastlingRightsString(t *testing.T) {
	data := []struct {
		rights CastlingRights
		str    string
	}{
		{NoCastlingRights, "-"},
		{AllCastlingRights, "KQkq"},
		{CastleWK | CastleBQ, "Kq"},
	}
	for _, d := range data {
		if got := d.rights.String(); got != d.str {
			t.Errorf("%v.String() = %q, want %q", d.rights, got, d.str)
		}
	}
}
