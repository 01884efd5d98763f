// Package engine implements position representation, move generation,
// make/unmake, and search for chessy's engine core.
package engine

import (
	"fmt"
	"regexp"
)

// Color identifies a side.
type Color uint8

const (
	NoColor Color = iota
	White
	Black

	ColorArraySize = int(iota)
	ColorMinValue  = White
	ColorMaxValue  = Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return White + Black - c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// PieceKind is a colorless piece type.
type PieceKind uint8

const (
	NoPieceKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	PieceKindArraySize = int(iota)
	PieceKindMinValue  = Pawn
	PieceKindMaxValue  = King
)

var pieceKindLetters = [PieceKindArraySize]byte{
	NoPieceKind: '-',
	Pawn:        'p',
	Knight:      'n',
	Bishop:      'b',
	Rook:        'r',
	Queen:       'q',
	King:        'k',
}

// Piece packs a PieceKind and a Color into a single byte.
type Piece uint8

// NoPiece is the zero value of Piece: NoColor, NoPieceKind.
const NoPiece Piece = 0

// NewPiece builds a Piece from a color and a kind.
func NewPiece(c Color, k PieceKind) Piece {
	return Piece(k)<<2 | Piece(c)
}

// Color returns the piece's color.
func (p Piece) Color() Color {
	return Color(p & 3)
}

// Kind returns the piece's kind.
func (p Piece) Kind() PieceKind {
	return PieceKind(p >> 2)
}

var errInvalidPieceLetter = fmt.Errorf("invalid piece letter")

// PieceFromLetter converts a FEN piece letter (uppercase = white,
// lowercase = black, one of {p,n,b,r,q,k}) into a Piece. It is total
// over exactly those twelve inputs and rejects everything else.
func PieceFromLetter(l byte) (Piece, error) {
	lower := l | 0x20
	var kind PieceKind
	switch lower {
	case 'p':
		kind = Pawn
	case 'n':
		kind = Knight
	case 'b':
		kind = Bishop
	case 'r':
		kind = Rook
	case 'q':
		kind = Queen
	case 'k':
		kind = King
	default:
		return NoPiece, errInvalidPieceLetter
	}
	color := White
	if l == lower {
		color = Black
	}
	return NewPiece(color, kind), nil
}

// Letter returns the FEN letter for p: uppercase for white, lowercase
// for black. Letter panics on NoPiece since it has no color.
func (p Piece) Letter() byte {
	if p.Kind() == NoPieceKind {
		panic("engine: Letter called on NoPiece")
	}
	l := pieceKindLetters[p.Kind()]
	if p.Color() == White {
		return l - 0x20
	}
	return l
}

// Square identifies one of the 64 board squares, a1=0 .. h8=63.
type Square uint8

// NoSquare is the sentinel for "no square", e.g. an unset en passant
// target. It is one past the last valid square.
const NoSquare Square = 64

// RankFile builds a Square from a zero-based rank (0=rank1) and file
// (0=a-file).
func RankFile(rank, file int) Square {
	return Square(rank*8 + file)
}

// Rank returns the zero-based rank of sq (0 = rank 1).
func (sq Square) Rank() int {
	return int(sq / 8)
}

// File returns the zero-based file of sq (0 = a-file).
func (sq Square) File() int {
	return int(sq % 8)
}

// Valid reports whether sq is one of the 64 real squares.
func (sq Square) Valid() bool {
	return sq < NoSquare
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{
		byte(sq.File()) + 'a',
		byte(sq.Rank()) + '1',
	})
}

var errInvalidSquare = fmt.Errorf("invalid square")

// SquareFromString parses a square name like "e4". "-" is rejected;
// callers needing the "unset" sentinel should check for it before
// calling SquareFromString.
func SquareFromString(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, errInvalidSquare
	}
	f, r := -1, -1
	if 'a' <= s[0] && s[0] <= 'h' {
		f = int(s[0] - 'a')
	}
	if '1' <= s[1] && s[1] <= '8' {
		r = int(s[1] - '1')
	}
	if f == -1 || r == -1 {
		return NoSquare, errInvalidSquare
	}
	return RankFile(r, f), nil
}

// Bitboard is a 64-bit set of squares, used by the attack tables and
// the check oracle. Position itself is a mailbox, not a bitboard.
type Bitboard uint64

const (
	BbEmpty Bitboard = 0
	BbFull  Bitboard = 1<<64 - 1
	BbFileA Bitboard = 0x0101010101010101
	BbFileH Bitboard = BbFileA << 7
	BbRank1 Bitboard = 0xFF
	BbRank8 Bitboard = BbRank1 << (8 * 7)
)

// Bitboard returns a board with only sq set.
func (sq Square) Bitboard() Bitboard {
	return 1 << uint(sq)
}

// RankBb returns all squares on the given zero-based rank.
func RankBb(rank int) Bitboard {
	return BbRank1 << uint(8*rank)
}

// FileBb returns all squares on the given zero-based file.
func FileBb(file int) Bitboard {
	return BbFileA << uint(file)
}

// de Bruijn bit-scan: debrujinTable[(bb*debrujinMul)>>58] gives the
// index of the single set bit in bb, for any bb that is a power of two.
var debrujinTable = [64]Square{
	0, 1, 2, 7, 3, 13, 8, 19, 4, 25, 14, 28, 9, 34, 20, 40,
	5, 17, 26, 38, 15, 46, 29, 48, 10, 31, 35, 54, 21, 50, 41, 57,
	63, 6, 12, 18, 24, 27, 33, 39, 16, 37, 45, 47, 30, 53, 49, 56,
	62, 11, 23, 32, 36, 44, 52, 55, 61, 22, 43, 51, 60, 42, 59, 58,
}

const debrujinMul = 0x218A392CD3D5DBF

// AsSquare returns the square of the single bit set in bb. Behavior is
// unspecified if bb does not have exactly one bit set.
func (bb Bitboard) AsSquare() Square {
	return debrujinTable[(uint64(bb)*debrujinMul)>>58]
}

// LSB returns a board containing only the least significant set bit
// of bb, or an empty board if bb is empty.
func (bb Bitboard) LSB() Bitboard {
	return bb & -bb
}

// Pop removes and returns the least significant set square from *bb.
func (bb *Bitboard) Pop() Square {
	lsb := bb.LSB()
	*bb -= lsb
	return lsb.AsSquare()
}

// Popcnt counts the number of set bits in bb.
func (bb Bitboard) Popcnt() int {
	n := uint64(bb)
	c := 0
	for ; n != 0; c++ {
		n &= n - 1
	}
	return c
}

// Move is a source/target square pair with an optional promotion kind.
// Equality is structural over all three fields, matching the source
// specification exactly.
type Move struct {
	Source    Square
	Target    Square
	Promotion PieceKind
}

var moveRe = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][nbrq]?$`)

var errInvalidMove = fmt.Errorf("invalid move string")

// ParseMove parses a long-algebraic move such as "e2e4" or "e7e8q".
func ParseMove(s string) (Move, error) {
	if !moveRe.MatchString(s) {
		return Move{}, errInvalidMove
	}
	src, err := SquareFromString(s[0:2])
	if err != nil {
		return Move{}, err
	}
	dst, err := SquareFromString(s[2:4])
	if err != nil {
		return Move{}, err
	}
	promo := NoPieceKind
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		}
	}
	return Move{Source: src, Target: dst, Promotion: promo}, nil
}

// String renders m in long-algebraic notation.
func (m Move) String() string {
	s := m.Source.String() + m.Target.String()
	if m.Promotion != NoPieceKind {
		s += string(pieceKindLetters[m.Promotion])
	}
	return s
}

// CastlingRights is a bitmask of the four castling privileges.
type CastlingRights uint8

const (
	CastleWK CastlingRights = 1 << iota
	CastleWQ
	CastleBK
	CastleBQ

	NoCastlingRights  CastlingRights = 0
	AllCastlingRights CastlingRights = CastleWK | CastleWQ | CastleBK | CastleBQ
)

// Has reports whether ca grants the given right.
func (ca CastlingRights) Has(right CastlingRights) bool {
	return ca&right != 0
}

// Without returns ca with the given right(s) cleared.
func (ca CastlingRights) Without(right CastlingRights) CastlingRights {
	return ca &^ right
}

var castlingLetters = [4]struct {
	right CastlingRights
	ch    byte
}{
	{CastleWK, 'K'},
	{CastleWQ, 'Q'},
	{CastleBK, 'k'},
	{CastleBQ, 'q'},
}

func (ca CastlingRights) String() string {
	if ca == NoCastlingRights {
		return "-"
	}
	var buf []byte
	for _, e := range castlingLetters {
		if ca.Has(e.right) {
			buf = append(buf, e.ch)
		}
	}
	return string(buf)
}
