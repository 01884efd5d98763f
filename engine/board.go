package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidPosition is returned by FromFEN when the parsed fields
// violate one of the semantic invariants a well-formed Position must
// satisfy (exactly one king per color, no pawn on the back rank, at
// most one side in check and only the side to move). The FEN parser
// itself (fen.go) is syntactic only; this is the Board constructor's
// job per spec.
var ErrInvalidPosition = errors.New("invalid position")

// ErrIllegalMove is returned by MakeMove when the given move is not in
// the current legal move list.
var ErrIllegalMove = errors.New("illegal move")

// UndoRecord carries everything needed to reverse exactly one
// MakeMove call.
type UndoRecord struct {
	Move             Move
	PrevEnPassant    Square
	PrevCastling     CastlingRights
	PrevHalfmove     int
	PrevFullmove     int
	Captured         Piece // NoPiece if the move captured nothing
	WasCastling      bool
	WasEnPassant     bool
	WasPromotion     bool
}

// Position is the full mutable board state: a mailbox array of pieces
// plus side-to-move, castling rights, en passant target, clocks, and
// an undo-record history stack. It is mutated exclusively through
// MakeMove/UnmakeMove.
type Position struct {
	board           [64]Piece
	ActiveColor     Color
	CastlingRights  CastlingRights
	EnPassantTarget Square
	HalfmoveClock   int
	FullmoveNumber  int
	history         []UndoRecord
}

// FromFEN parses and validates fen, returning a ready-to-use Position.
// The FEN fields themselves are parsed permissively (fen.go); the en
// passant target is then sanitized (cleared if no enemy pawn could
// actually make the capture) before the remaining structural
// invariants are checked.
func FromFEN(fen string) (*Position, error) {
	fields, err := parseFEN(fen)
	if err != nil {
		return nil, err
	}

	pos := &Position{
		board:           fields.placement,
		ActiveColor:     fields.activeColor,
		CastlingRights:  fields.castling,
		EnPassantTarget: fields.enPassant,
		HalfmoveClock:   fields.halfmove,
		FullmoveNumber:  fields.fullmove,
	}

	if pos.EnPassantTarget.Valid() && !pos.enPassantTargetIsPlausible() {
		pos.EnPassantTarget = NoSquare
	}

	if err := pos.validateInvariants(); err != nil {
		return nil, err
	}

	return pos, nil
}

// NewStartPosition returns a Position set to the standard chess
// starting position.
func NewStartPosition() *Position {
	pos, err := FromFEN(StartFEN)
	if err != nil {
		panic("engine: StartFEN failed to parse: " + err.Error())
	}
	return pos
}

func (pos *Position) validateInvariants() error {
	whiteKings, blackKings := 0, 0
	for sq := Square(0); sq < 64; sq++ {
		p := pos.board[sq]
		if p.Kind() == King {
			if p.Color() == White {
				whiteKings++
			} else {
				blackKings++
			}
		}
		if p.Kind() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7) {
			return fmt.Errorf("%w: pawn on back rank %s", ErrInvalidPosition, sq)
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return fmt.Errorf("%w: expected exactly one king per color, got white=%d black=%d", ErrInvalidPosition, whiteKings, blackKings)
	}
	if pos.IsInCheck(pos.ActiveColor.Other()) {
		return fmt.Errorf("%w: side not to move is in check", ErrInvalidPosition)
	}
	return nil
}

// PieceAt returns the piece on sq, or NoPiece if empty.
func (pos *Position) PieceAt(sq Square) Piece {
	return pos.board[sq]
}

// HistoryLen returns the number of moves on the undo stack.
func (pos *Position) HistoryLen() int {
	return len(pos.history)
}

func (pos *Position) occupied() Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < 64; sq++ {
		if pos.board[sq] != NoPiece {
			bb |= sq.Bitboard()
		}
	}
	return bb
}

func (pos *Position) occupiedByColor(c Color) Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < 64; sq++ {
		if p := pos.board[sq]; p != NoPiece && p.Color() == c {
			bb |= sq.Bitboard()
		}
	}
	return bb
}

func (pos *Position) kingSquare(c Color) Square {
	for sq := Square(0); sq < 64; sq++ {
		p := pos.board[sq]
		if p.Kind() == King && p.Color() == c {
			return sq
		}
	}
	panic("engine: no king of color " + c.String() + " on board")
}

// IsInCheck reports whether color is in check. If color is omitted,
// active_color is used. The check is done by projecting a super-piece
// (queen union knight) attack set from the king's square, restricted
// by current blockers, then confirming each enemy piece found that way
// actually attacks the king from its real square.
func (pos *Position) IsInCheck(color ...Color) bool {
	c := pos.ActiveColor
	if len(color) > 0 {
		c = color[0]
	}

	kingSq := pos.kingSquare(c)
	occ := pos.occupied()
	candidates := (QueenAttacks(kingSq, occ) | KnightAttacks(kingSq)) & pos.occupiedByColor(c.Other())

	for candidates != 0 {
		sq := candidates.Pop()
		p := pos.board[sq]
		atk := AttacksFrom(p.Kind(), p.Color(), sq, occ)
		if atk&kingSq.Bitboard() != 0 {
			return true
		}
	}
	return false
}

// MakeMove applies m to pos. Unless bypassValidation is passed as
// true, m must be present in the current legal move list or an
// ErrIllegalMove is returned. bypass_validation=true is used by the
// move generator to test "would this move leave me in check?", and by
// the search and perft, which only replay moves GenerateLegalMoves
// already produced; external callers must always validate.
func (pos *Position) MakeMove(m Move, bypassValidation ...bool) error {
	bypass := len(bypassValidation) > 0 && bypassValidation[0]

	if !bypass {
		legal := false
		for _, lm := range GenerateLegalMoves(pos) {
			if lm == m {
				legal = true
				break
			}
		}
		if !legal {
			return fmt.Errorf("%w: %s", ErrIllegalMove, m)
		}
	}

	pos.applyMove(m)
	return nil
}

func (pos *Position) applyMove(m Move) {
	mover := pos.board[m.Source]
	if mover == NoPiece {
		panic("engine: make_move with empty source square " + m.Source.String())
	}

	rec := UndoRecord{
		Move:          m,
		PrevEnPassant: pos.EnPassantTarget,
		PrevCastling:  pos.CastlingRights,
		PrevHalfmove:  pos.HalfmoveClock,
		PrevFullmove:  pos.FullmoveNumber,
	}

	castling := pos.isCastlingMove(m)
	enPassant := pos.isEnPassantMove(m)
	promotion := m.Promotion != NoPieceKind
	rec.WasCastling = castling
	rec.WasEnPassant = enPassant
	rec.WasPromotion = promotion

	capturedForClock := false

	switch {
	case promotion:
		rec.Captured = pos.board[m.Target]
		capturedForClock = rec.Captured != NoPiece
		pos.board[m.Target] = NewPiece(mover.Color(), m.Promotion)
	case castling:
		rec.Captured = NoPiece
		pos.board[m.Target] = mover
		rookFrom, rookTo := castlingRookSquares(m.Target)
		rook := pos.board[rookFrom]
		pos.board[rookFrom] = NoPiece
		pos.board[rookTo] = rook
	case enPassant:
		capSq := enPassantCapturedSquare(m.Target, mover.Color())
		rec.Captured = pos.board[capSq]
		pos.board[capSq] = NoPiece
		pos.board[m.Target] = mover
		capturedForClock = true
	default:
		rec.Captured = pos.board[m.Target]
		capturedForClock = rec.Captured != NoPiece
		pos.board[m.Target] = mover
	}
	pos.board[m.Source] = NoPiece

	pos.CastlingRights = updateCastlingRights(pos.CastlingRights, m)

	pos.EnPassantTarget = NoSquare
	if mover.Kind() == Pawn {
		dr := m.Target.Rank() - m.Source.Rank()
		if dr == 2 || dr == -2 {
			midRank := (m.Source.Rank() + m.Target.Rank()) / 2
			candidate := RankFile(midRank, m.Source.File())
			if adjacentPawnOfColor(pos, m.Target, mover.Color().Other()) {
				pos.EnPassantTarget = candidate
			}
		}
	}

	if capturedForClock || mover.Kind() == Pawn {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}
	if mover.Color() == Black {
		pos.FullmoveNumber++
	}

	pos.ActiveColor = pos.ActiveColor.Other()
	pos.history = append(pos.history, rec)
}

// UnmakeMove pops the last UndoRecord and reverses its mutation
// exactly, including clocks, castling rights, en passant target, and
// the undo stack's own length.
func (pos *Position) UnmakeMove() {
	n := len(pos.history)
	if n == 0 {
		panic("engine: UnmakeMove called with empty history")
	}
	rec := pos.history[n-1]
	pos.history = pos.history[:n-1]
	m := rec.Move

	pos.ActiveColor = pos.ActiveColor.Other()
	moverColor := pos.ActiveColor
	movedPiece := pos.board[m.Target]

	switch {
	case rec.WasPromotion:
		pos.board[m.Source] = NewPiece(moverColor, Pawn)
		pos.board[m.Target] = rec.Captured
	case rec.WasCastling:
		pos.board[m.Source] = movedPiece
		pos.board[m.Target] = NoPiece
		rookFrom, rookTo := castlingRookSquares(m.Target)
		rook := pos.board[rookTo]
		pos.board[rookTo] = NoPiece
		pos.board[rookFrom] = rook
	case rec.WasEnPassant:
		pos.board[m.Source] = movedPiece
		pos.board[m.Target] = NoPiece
		capSq := enPassantCapturedSquare(m.Target, moverColor)
		pos.board[capSq] = rec.Captured
	default:
		pos.board[m.Source] = movedPiece
		pos.board[m.Target] = rec.Captured
	}

	pos.EnPassantTarget = rec.PrevEnPassant
	pos.CastlingRights = rec.PrevCastling
	pos.HalfmoveClock = rec.PrevHalfmove
	pos.FullmoveNumber = rec.PrevFullmove
}

func (pos *Position) isCastlingMove(m Move) bool {
	p := pos.board[m.Source]
	if p.Kind() != King {
		return false
	}
	switch m.Source {
	case SquareE1:
		return m.Target == SquareG1 || m.Target == SquareC1
	case SquareE8:
		return m.Target == SquareG8 || m.Target == SquareC8
	}
	return false
}

func (pos *Position) isEnPassantMove(m Move) bool {
	p := pos.board[m.Source]
	return p.Kind() == Pawn && pos.EnPassantTarget.Valid() && m.Target == pos.EnPassantTarget
}

func castlingRookSquares(kingTarget Square) (from, to Square) {
	switch kingTarget {
	case SquareG1:
		return SquareH1, SquareF1
	case SquareC1:
		return SquareA1, SquareD1
	case SquareG8:
		return SquareH8, SquareF8
	case SquareC8:
		return SquareA8, SquareD8
	}
	panic("engine: castlingRookSquares called with non-castling king target")
}

func enPassantCapturedSquare(target Square, moverColor Color) Square {
	if moverColor == White {
		return target - 8
	}
	return target + 8
}

// adjacentPawnOfColor reports whether a pawn of the given color sits
// on a square adjacent (by file, same rank) to landing. Edge files
// must not wrap: a pawn landing on the h-file only checks the g-file.
func adjacentPawnOfColor(pos *Position, landing Square, color Color) bool {
	rank, file := landing.Rank(), landing.File()
	for _, df := range [2]int{-1, 1} {
		f := file + df
		if f < 0 || f >= 8 {
			continue
		}
		p := pos.board[RankFile(rank, f)]
		if p.Kind() == Pawn && p.Color() == color {
			return true
		}
	}
	return false
}

func updateCastlingRights(ca CastlingRights, m Move) CastlingRights {
	// A king move disables both rights for that color, whether or not
	// the move is castling itself.
	switch m.Source {
	case SquareE1:
		ca = ca.Without(CastleWK | CastleWQ)
	case SquareE8:
		ca = ca.Without(CastleBK | CastleBQ)
	}
	for _, sq := range [2]Square{m.Source, m.Target} {
		switch sq {
		case SquareA1:
			ca = ca.Without(CastleWQ)
		case SquareH1:
			ca = ca.Without(CastleWK)
		case SquareA8:
			ca = ca.Without(CastleBQ)
		case SquareH8:
			ca = ca.Without(CastleBK)
		}
	}
	return ca
}

// enPassantTargetIsPlausible checks, for a FEN-imported en passant
// target, that the rank is consistent with a genuine double push by
// the non-active color and that an adjacent pawn of the active color
// could actually make the capture.
func (pos *Position) enPassantTargetIsPlausible() bool {
	target := pos.EnPassantTarget
	opponent := pos.ActiveColor.Other()

	var landing Square
	switch {
	case opponent == White && target.Rank() == 2:
		landing = target + 8
	case opponent == Black && target.Rank() == 5:
		landing = target - 8
	default:
		return false
	}

	p := pos.board[landing]
	if p.Kind() != Pawn || p.Color() != opponent {
		return false
	}
	return adjacentPawnOfColor(pos, landing, pos.ActiveColor)
}
