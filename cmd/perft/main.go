// Command perft counts nodes, captures, en passant captures, castles,
// and promotions reachable from a position at a range of depths, and
// checks the counts against known-good values for a handful of
// standard test positions.
//
// Examples:
//
//	$ perft -fen startpos -max_depth 5
//	$ perft -fen kiwipete -max_depth 4
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Guilherme-Vasconcelos/chessy/engine"
)

var (
	fen      = flag.String("fen", "startpos", "position to search")
	minDepth = flag.Int("min_depth", 1, "minimum depth to search (inclusive)")
	maxDepth = flag.Int("max_depth", 5, "maximum depth to search (inclusive)")
	depth    = flag.Int("depth", 0, "if non zero, searches only this depth")
)

var (
	startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	duplain  = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"

	known = map[string]string{
		"startpos": startpos,
		"kiwipete": kiwipete,
		"duplain":  duplain,
	}

	// Expected counters by depth, index 0 is depth 0 (the root node).
	data = map[string][]engine.Counters{
		startpos: {
			{Nodes: 1},
			{Nodes: 20},
			{Nodes: 400},
			{Nodes: 8902, Captures: 34},
			{Nodes: 197281, Captures: 1576},
			{Nodes: 4865609, Captures: 82719, EnPassant: 258},
			{Nodes: 119060324, Captures: 2812008, EnPassant: 5248},
		},
		kiwipete: {
			{Nodes: 1},
			{Nodes: 48, Captures: 8, Castles: 2},
			{Nodes: 2039, Captures: 351, EnPassant: 1, Castles: 91},
			{Nodes: 97862, Captures: 17102, EnPassant: 45, Castles: 3162},
			{Nodes: 4085603, Captures: 757163, EnPassant: 1929, Castles: 128013, Promotions: 15172},
		},
		duplain: {
			{Nodes: 1},
			{Nodes: 14, Captures: 1},
			{Nodes: 191, Captures: 14},
			{Nodes: 2812, Captures: 209, EnPassant: 2},
			{Nodes: 43238, Captures: 3348, EnPassant: 123},
			{Nodes: 674624, Captures: 52051, EnPassant: 1165},
		},
	}
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)

	var expected []engine.Counters
	if s, has := known[*fen]; has {
		*fen = s
		expected = data[*fen]
	}
	if *depth != 0 {
		*minDepth = *depth
		*maxDepth = *depth
	}

	fmt.Printf("Searching FEN %q\n", *fen)
	pos, err := engine.FromFEN(*fen)
	if err != nil {
		log.Fatalln("cannot parse -fen:", err)
	}

	fmt.Printf("depth        nodes   captures enpassant   castles promotions  eval   elapsed\n")
	fmt.Printf("-----+------------+----------+---------+---------+----------+-----+---------\n")

	for d := *minDepth; d <= *maxDepth; d++ {
		start := time.Now()
		c := engine.Perft(pos, d)
		elapsed := time.Since(start)

		status := ""
		if d < len(expected) {
			if c == expected[d] {
				status = "good"
			} else {
				status = "bad"
			}
		}

		fmt.Printf("   %2d %12d %10d %9d %9d %10d %-4s %v\n",
			d, c.Nodes, c.Captures, c.EnPassant, c.Castles, c.Promotions, status, elapsed)

		if status == "bad" {
			e := expected[d]
			fmt.Printf("   %2d %12d %10d %9d %9d %10d expected\n",
				d, e.Nodes, e.Captures, e.EnPassant, e.Castles, e.Promotions)
			break
		}
	}
}
