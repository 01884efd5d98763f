package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FEN error taxonomy. Each sentinel is wrapped with the offending
// substring via fmt.Errorf("%w: ..."), so callers can still recover
// the category with errors.Is.
var (
	ErrWrongFieldCount = errors.New("wrong field count")
	ErrBadPlacement    = errors.New("bad piece placement")
	ErrBadActiveColor  = errors.New("bad active color")
	ErrBadCastling     = errors.New("bad castling availability")
	ErrBadEnPassant    = errors.New("bad en passant target")
	ErrBadHalfmove     = errors.New("bad halfmove clock")
	ErrBadFullmove     = errors.New("bad fullmove number")
)

// fenFields is the syntactic-only result of parsing a FEN string: it
// enforces shape but not cross-field semantic invariants. Board.FromFEN
// is what enforces those.
type fenFields struct {
	placement   [64]Piece
	activeColor Color
	castling    CastlingRights
	enPassant   Square
	halfmove    int
	fullmove    int
}

// parseFEN parses the 6 whitespace-separated FEN fields.
func parseFEN(fen string) (fenFields, error) {
	var out fenFields

	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return out, fmt.Errorf("%w: got %d fields in %q", ErrWrongFieldCount, len(fields), fen)
	}

	placement, err := parsePlacement(fields[0])
	if err != nil {
		return out, err
	}
	out.placement = placement

	color, err := parseActiveColor(fields[1])
	if err != nil {
		return out, err
	}
	out.activeColor = color

	castling, err := parseCastling(fields[2])
	if err != nil {
		return out, err
	}
	out.castling = castling

	ep, err := parseEnPassant(fields[3])
	if err != nil {
		return out, err
	}
	out.enPassant = ep

	halfmove, err := parseHalfmove(fields[4])
	if err != nil {
		return out, err
	}
	out.halfmove = halfmove

	fullmove, err := parseFullmove(fields[5])
	if err != nil {
		return out, err
	}
	out.fullmove = fullmove

	return out, nil
}

func parsePlacement(field string) ([64]Piece, error) {
	var board [64]Piece

	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return board, fmt.Errorf("%w: expected 8 ranks, got %d in %q", ErrBadPlacement, len(ranks), field)
	}

	for i, rankStr := range ranks {
		rank := 7 - i // ranks[0] is rank 8 (index 7)
		file := 0
		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			default:
				piece, err := PieceFromLetter(c)
				if err != nil {
					return board, fmt.Errorf("%w: invalid letter %q in rank %q", ErrBadPlacement, c, rankStr)
				}
				if file >= 8 {
					return board, fmt.Errorf("%w: rank %q has more than 8 squares", ErrBadPlacement, rankStr)
				}
				board[RankFile(rank, file)] = piece
				file++
			}
		}
		if file != 8 {
			return board, fmt.Errorf("%w: rank %q sums to %d squares, want 8", ErrBadPlacement, rankStr, file)
		}
	}

	return board, nil
}

func parseActiveColor(field string) (Color, error) {
	switch field {
	case "w":
		return White, nil
	case "b":
		return Black, nil
	default:
		return NoColor, fmt.Errorf("%w: %q", ErrBadActiveColor, field)
	}
}

func parseCastling(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastlingRights, nil
	}
	if len(field) == 0 || len(field) > 4 {
		return NoCastlingRights, fmt.Errorf("%w: %q", ErrBadCastling, field)
	}
	var rights CastlingRights
	for i := 0; i < len(field); i++ {
		var right CastlingRights
		switch field[i] {
		case 'K':
			right = CastleWK
		case 'Q':
			right = CastleWQ
		case 'k':
			right = CastleBK
		case 'q':
			right = CastleBQ
		default:
			return NoCastlingRights, fmt.Errorf("%w: invalid letter %q in %q", ErrBadCastling, field[i], field)
		}
		if rights.Has(right) {
			return NoCastlingRights, fmt.Errorf("%w: repeated letter %q in %q", ErrBadCastling, field[i], field)
		}
		rights |= right
	}
	return rights, nil
}

func parseEnPassant(field string) (Square, error) {
	if field == "-" {
		return NoSquare, nil
	}
	sq, err := SquareFromString(field)
	if err != nil {
		return NoSquare, fmt.Errorf("%w: %q", ErrBadEnPassant, field)
	}
	return sq, nil
}

func parseHalfmove(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadHalfmove, field)
	}
	return n, nil
}

func parseFullmove(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadFullmove, field)
	}
	return n, nil
}

// FormatFEN renders pos as a FEN string. Castling letters are emitted
// in the canonical KQkq order regardless of input order, matching the
// round-trip property modulo castling-rights normalization.
func FormatFEN(pos *Position) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := pos.board[RankFile(rank, file)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank != 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if pos.ActiveColor == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(pos.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(pos.EnPassantTarget.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.HalfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullmoveNumber))

	return sb.String()
}

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
