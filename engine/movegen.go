package engine

// GenerateLegalMoves returns every strictly legal move for the side to
// move: pseudo-legal generation per piece, filtered by "does making
// this move leave my own king in check?"
func GenerateLegalMoves(pos *Position) []Move {
	pseudo := GeneratePseudoLegalMoves(pos)
	mover := pos.ActiveColor

	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		pos.MakeMove(m, true)
		if !pos.IsInCheck(mover) {
			legal = append(legal, m)
		}
		pos.UnmakeMove()
	}
	return legal
}

// GeneratePseudoLegalMoves returns every move that obeys piece-movement
// and blocker/color rules for the side to move, without filtering for
// self-check.
func GeneratePseudoLegalMoves(pos *Position) []Move {
	var moves []Move
	for sq := Square(0); sq < 64; sq++ {
		p := pos.board[sq]
		if p == NoPiece || p.Color() != pos.ActiveColor {
			continue
		}
		moves = append(moves, pseudoLegalMovesFrom(pos, sq)...)
	}
	return moves
}

func pseudoLegalMovesFrom(pos *Position, sq Square) []Move {
	switch pos.board[sq].Kind() {
	case Pawn:
		return pawnPseudoLegalMoves(pos, sq)
	case King:
		moves := nonPawnPseudoLegalMoves(pos, sq)
		return append(moves, castlingMoves(pos, sq)...)
	default:
		return nonPawnPseudoLegalMoves(pos, sq)
	}
}

// nonPawnPseudoLegalMoves handles knight, bishop, rook, queen, and the
// ordinary (non-castling) king step: take the attack set under current
// blockers and drop squares occupied by a friendly piece.
func nonPawnPseudoLegalMoves(pos *Position, sq Square) []Move {
	p := pos.board[sq]
	occ := pos.occupied()
	targets := AttacksFrom(p.Kind(), p.Color(), sq, occ) &^ pos.occupiedByColor(p.Color())

	var moves []Move
	for targets != 0 {
		target := targets.Pop()
		moves = append(moves, Move{Source: sq, Target: target})
	}
	return moves
}

func pawnPseudoLegalMoves(pos *Position, sq Square) []Move {
	p := pos.board[sq]
	color := p.Color()
	occ := pos.occupied()
	enemyOcc := pos.occupiedByColor(color.Other())

	var moves []Move

	attackTargets := PawnAttacks(color, sq)
	captureTargets := attackTargets & enemyOcc
	if pos.EnPassantTarget.Valid() && attackTargets&pos.EnPassantTarget.Bitboard() != 0 {
		captureTargets |= pos.EnPassantTarget.Bitboard()
	}
	for captureTargets != 0 {
		target := captureTargets.Pop()
		appendPawnMove(&moves, sq, target)
	}

	dir, startRank := 1, 1
	if color == Black {
		dir, startRank = -1, 6
	}

	oneStep := RankFile(sq.Rank()+dir, sq.File())
	if occ&oneStep.Bitboard() == 0 {
		appendPawnMove(&moves, sq, oneStep)
		if sq.Rank() == startRank {
			twoStep := RankFile(sq.Rank()+2*dir, sq.File())
			if occ&twoStep.Bitboard() == 0 {
				moves = append(moves, Move{Source: sq, Target: twoStep})
			}
		}
	}

	return moves
}

// appendPawnMove emits a plain move, or four promotion variants when
// the target lands on rank 0 or rank 7.
func appendPawnMove(moves *[]Move, source, target Square) {
	if target.Rank() == 0 || target.Rank() == 7 {
		for _, promo := range [4]PieceKind{Knight, Bishop, Rook, Queen} {
			*moves = append(*moves, Move{Source: source, Target: target, Promotion: promo})
		}
		return
	}
	*moves = append(*moves, Move{Source: source, Target: target})
}

type castlingDef struct {
	right      CastlingRights
	kingTarget Square
	fullPath   []Square
	transit    []Square
}

// castlingMoves generates the 0, 1, or 2 legal castling moves for the
// king on kingSq. If the side to move is in check, no castling moves
// are generated at all.
func castlingMoves(pos *Position, kingSq Square) []Move {
	color := pos.board[kingSq].Color()
	if pos.IsInCheck(color) {
		return nil
	}

	var defs []castlingDef
	switch {
	case color == White && kingSq == SquareE1:
		defs = []castlingDef{
			{CastleWK, SquareG1, []Square{SquareF1, SquareG1}, []Square{SquareF1, SquareG1}},
			{CastleWQ, SquareC1, []Square{SquareD1, SquareC1, SquareB1}, []Square{SquareD1, SquareC1}},
		}
	case color == Black && kingSq == SquareE8:
		defs = []castlingDef{
			{CastleBK, SquareG8, []Square{SquareF8, SquareG8}, []Square{SquareF8, SquareG8}},
			{CastleBQ, SquareC8, []Square{SquareD8, SquareC8, SquareB8}, []Square{SquareD8, SquareC8}},
		}
	default:
		return nil
	}

	occ := pos.occupied()
	var moves []Move
	for _, d := range defs {
		if !pos.CastlingRights.Has(d.right) {
			continue
		}
		if !pathEmpty(occ, d.fullPath) {
			continue
		}
		if !transitSquaresSafe(pos, kingSq, d.transit, color) {
			continue
		}
		moves = append(moves, Move{Source: kingSq, Target: d.kingTarget})
	}
	return moves
}

func pathEmpty(occ Bitboard, squares []Square) bool {
	for _, s := range squares {
		if occ&s.Bitboard() != 0 {
			return false
		}
	}
	return true
}

// transitSquaresSafe checks that moving the king onto each transit
// square would not leave it in check, by directly relocating the king
// piece and consulting IsInCheck, then undoing. This is a narrower
// simulation than a full MakeMove/UnmakeMove round trip: routing
// through MakeMove would misclassify a one-square king step onto g1
// or c1 as an actual castling move (since those are the canonical
// castling targets), dragging the rook along with it.
func transitSquaresSafe(pos *Position, kingSq Square, transit []Square, color Color) bool {
	king := pos.board[kingSq]
	for _, t := range transit {
		captured := pos.board[t]
		pos.board[kingSq] = NoPiece
		pos.board[t] = king

		inCheck := pos.IsInCheck(color)

		pos.board[kingSq] = king
		pos.board[t] = captured

		if inCheck {
			return false
		}
	}
	return true
}
