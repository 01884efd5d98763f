package main

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Guilherme-Vasconcelos/chessy/engine"
)

// captureStdout runs fn with os.Stdout replaced by a pipe and returns
// every line fn printed to it.
func captureStdout(t *testing.T, fn func()) []string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe error: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	w.Close()

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func newTestUCI() *UCI {
	return NewUCI(engine.DefaultConfig, zap.NewNop())
}

func TestUCIHandshake(t *testing.T) {
	u := newTestUCI()
	lines := captureStdout(t, func() {
		if err := u.Execute("uci"); err != nil {
			t.Fatalf("Execute(uci) error: %v", err)
		}
	})

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "id name ") {
		t.Errorf("line 0 = %q, want id name prefix", lines[0])
	}
	if !strings.HasPrefix(lines[1], "id author ") {
		t.Errorf("line 1 = %q, want id author prefix", lines[1])
	}
	if lines[2] != "uciok" {
		t.Errorf("line 2 = %q, want uciok", lines[2])
	}
}

func TestUCIIsReady(t *testing.T) {
	u := newTestUCI()
	lines := captureStdout(t, func() {
		if err := u.Execute("isready"); err != nil {
			t.Fatalf("Execute(isready) error: %v", err)
		}
	})
	if len(lines) != 1 || lines[0] != "readyok" {
		t.Errorf("got %v, want [readyok]", lines)
	}
}

func TestUCIPositionStartposWithMoves(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos moves e2e4 e7e5"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}
	if u.pos == nil {
		t.Fatalf("position not set")
	}
	if u.pos.PieceAt(engine.SquareE4).Kind() != engine.Pawn {
		t.Errorf("expected white pawn on e4 after e2e4 e7e5")
	}
	if u.pos.PieceAt(engine.SquareE5).Kind() != engine.Pawn {
		t.Errorf("expected black pawn on e5 after e2e4 e7e5")
	}
}

func TestUCIPositionRejectsIllegalMove(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos moves e2e5 d2d4"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}
	if u.pos == nil {
		t.Fatalf("position not set")
	}
	if u.pos.PieceAt(engine.SquareE2).Kind() != engine.Pawn || u.pos.PieceAt(engine.SquareE5) != engine.NoPiece {
		t.Errorf("illegal move e2e5 should have been skipped")
	}
	if u.pos.PieceAt(engine.SquareD4).Kind() != engine.Pawn {
		t.Errorf("legal move d2d4 after the skipped one should have been applied")
	}
}

func TestUCIGoEmitsExactlyOneBestmove(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}

	lines := captureStdout(t, func() {
		if err := u.Execute("go depth 1"); err != nil {
			t.Fatalf("Execute(go) error: %v", err)
		}
		// isready no longer blocks on a running search, so wait on the
		// idle token directly to know the worker has finished.
		u.idle <- struct{}{}
		<-u.idle
	})

	bestmoveCount := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "bestmove ") {
			bestmoveCount++
		}
	}
	if bestmoveCount != 1 {
		t.Errorf("got %d bestmove lines, want exactly 1: %v", bestmoveCount, lines)
	}
}

func TestUCIGoRejectsSecondGoWhileBusy(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}

	captureStdout(t, func() {
		if err := u.Execute("go infinite"); err != nil {
			t.Fatalf("Execute(go infinite) error: %v", err)
		}
		if err := u.Execute("go depth 1"); err == nil {
			t.Errorf("expected second go to be rejected while a search is running")
		}
		u.Execute("stop")
		// Drain the worker before the test returns.
		u.idle <- struct{}{}
		<-u.idle
	})
}

func TestUCIIsReadyDoesNotBlockOnRunningSearch(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}

	captureStdout(t, func() {
		if err := u.Execute("go infinite"); err != nil {
			t.Fatalf("Execute(go infinite) error: %v", err)
		}
		// The search never completes on its own (infinite depth), so if
		// isready waited on the idle token this would deadlock the test.
		if err := u.Execute("isready"); err != nil {
			t.Fatalf("Execute(isready) error: %v", err)
		}
		u.Execute("stop")
		u.idle <- struct{}{}
		<-u.idle
	})
}

func TestUCIGoInfiniteCanBeStopped(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}
	if err := u.Execute("go infinite"); err != nil {
		t.Fatalf("Execute(go infinite) error: %v", err)
	}
	u.Execute("stop")
	u.idle <- struct{}{}
	<-u.idle
}

func TestUCIGoRejectsDepthBelowOne(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("position startpos"); err != nil {
		t.Fatalf("Execute(position) error: %v", err)
	}
	if err := u.Execute("go depth 0"); err == nil {
		t.Errorf("expected 'go depth 0' to be rejected")
	}
}

func TestUCIQuitReturnsErrQuit(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("quit"); err != errQuit {
		t.Errorf("Execute(quit) = %v, want errQuit", err)
	}
}

func TestUCIUnknownCommandIsIgnored(t *testing.T) {
	u := newTestUCI()
	if err := u.Execute("frobnicate"); err != nil {
		t.Errorf("Execute(unknown) = %v, want nil", err)
	}
}
