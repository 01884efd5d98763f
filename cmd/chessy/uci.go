package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Guilherme-Vasconcelos/chessy/engine"
)

var errQuit = errors.New("quit")

// UCI dispatches one line of the UCI protocol at a time. Position
// setup, isready, and stop are all handled synchronously on the
// calling goroutine and never block on a running search; go spawns
// exactly one worker goroutine, guarded by a buffered idle token that
// a second go checks non-blockingly and rejects if still held.
type UCI struct {
	cfg    engine.Config
	logger *zap.Logger

	pos      *engine.Position
	searcher *engine.Searcher

	stdoutMu *sync.Mutex
	// buffer of 1; full while a search is running.
	idle chan struct{}
}

// NewUCI builds a UCI dispatcher. No position is set until 'position'
// or 'ucinewgame' is received.
func NewUCI(cfg engine.Config, logger *zap.Logger) *UCI {
	return &UCI{
		cfg:      cfg,
		logger:   logger,
		stdoutMu: &sync.Mutex{},
		idle:     make(chan struct{}, 1),
	}
}

// Execute dispatches a single input line by its first whitespace
// token. errQuit is returned (never wrapped) for "quit".
func (u *UCI) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "uci":
		return u.handleUCI()
	case "isready":
		return u.handleIsReady()
	case "ucinewgame":
		return u.handleNewGame()
	case "position":
		return u.handlePosition(args)
	case "go":
		return u.handleGo(args)
	case "stop":
		return u.handleStop()
	case "quit":
		return errQuit
	default:
		u.logger.Warn("unhandled uci command", zap.String("cmd", cmd))
		return nil
	}
}

func (u *UCI) println(s string) {
	u.stdoutMu.Lock()
	defer u.stdoutMu.Unlock()
	fmt.Println(s)
}

func (u *UCI) handleUCI() error {
	u.println(fmt.Sprintf("id name %s", u.cfg.EngineName))
	u.println(fmt.Sprintf("id author %s", u.cfg.EngineAuthor))
	u.println("uciok")
	return nil
}

// handleIsReady always replies immediately, even while a search is
// running, so it stays usable as a liveness check.
func (u *UCI) handleIsReady() error {
	u.println("readyok")
	return nil
}

func (u *UCI) handleNewGame() error {
	u.pos = engine.NewStartPosition()
	return nil
}

func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *engine.Position
	var err error
	i := 0

	switch args[0] {
	case "startpos":
		pos = engine.NewStartPosition()
		i = 1
	case "fen":
		i = 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = engine.FromFEN(strings.Join(args[1:i], " "))
	default:
		return fmt.Errorf("unknown position argument %q", args[0])
	}
	if err != nil {
		return err
	}

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got %q", args[i])
		}
		for _, s := range args[i+1:] {
			m, err := engine.ParseMove(s)
			if err != nil {
				return err
			}
			if err := pos.MakeMove(m); err != nil {
				u.logger.Warn("skipping illegal move in position command", zap.String("move", s), zap.Error(err))
				continue
			}
		}
	}

	u.pos = pos
	return nil
}

const infiniteDepth = 99

// handleGo rejects a second go while a worker is still alive rather
// than queueing or blocking behind it.
func (u *UCI) handleGo(args []string) error {
	if u.pos == nil {
		return fmt.Errorf("no position set, send 'position' first")
	}

	depth := u.cfg.DefaultMaxDepth
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			depth = infiniteDepth
		case "depth":
			if i+1 >= len(args) {
				return fmt.Errorf("'go depth' missing a value")
			}
			d, err := strconv.Atoi(args[i+1])
			if err != nil {
				return fmt.Errorf("invalid 'go depth' value %q", args[i+1])
			}
			depth = d
			i++
		}
	}
	if depth < 1 {
		return fmt.Errorf("invalid 'go depth' value %d, want >= 1", depth)
	}

	pos := u.pos
	searcher := engine.NewSearcher(&uciReporter{stdoutMu: u.stdoutMu})

	select {
	case u.idle <- struct{}{}:
	default:
		return fmt.Errorf("engine is busy")
	}
	u.searcher = searcher

	go func() {
		defer func() { <-u.idle }()
		best, ok := searcher.Search(pos, depth)
		if !ok {
			u.println("bestmove (none)")
			return
		}
		u.println(fmt.Sprintf("bestmove %s", best))
	}()
	return nil
}

// handleStop only flips the cancellation flag; it does not wait for
// the worker to actually exit.
func (u *UCI) handleStop() error {
	if u.searcher != nil {
		u.searcher.Stop()
	}
	return nil
}

// uciReporter renders Searcher progress as "info depth ... score cp
// ... pv ..." lines on stdout, serialized against bestmove output.
type uciReporter struct {
	stdoutMu *sync.Mutex
}

func (r *uciReporter) ReportInfo(depth int, score int, pv []engine.Move) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d score cp %d pv", depth, score)
	for _, m := range pv {
		fmt.Fprintf(&sb, " %s", m)
	}

	r.stdoutMu.Lock()
	defer r.stdoutMu.Unlock()
	fmt.Println(sb.String())
}
