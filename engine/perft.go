package engine

// Counters tallies leaf-level move classifications from a perft run:
// total leaf nodes, and how many of those leaf moves were captures,
// en passant captures, castles, or promotions.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

// Add accumulates ot into co.
func (co *Counters) Add(ot Counters) {
	co.Nodes += ot.Nodes
	co.Captures += ot.Captures
	co.EnPassant += ot.EnPassant
	co.Castles += ot.Castles
	co.Promotions += ot.Promotions
}

// Perft counts nodes reachable from pos by playing every legal move to
// the given depth, classifying leaf moves by capture/en-passant/castle/
// promotion. depth 0 is a single node (the position itself).
func Perft(pos *Position, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	var r Counters
	for _, m := range GenerateLegalMoves(pos) {
		if depth == 1 {
			classifyLeaf(pos, m, &r)
		}
		pos.MakeMove(m, true)
		r.Add(Perft(pos, depth-1))
		pos.UnmakeMove()
	}
	return r
}

func classifyLeaf(pos *Position, m Move, r *Counters) {
	if pos.isEnPassantMove(m) {
		r.EnPassant++
		r.Captures++
	} else if pos.board[m.Target] != NoPiece {
		r.Captures++
	}
	if pos.isCastlingMove(m) {
		r.Castles++
	}
	if m.Promotion != NoPieceKind {
		r.Promotions++
	}
}
