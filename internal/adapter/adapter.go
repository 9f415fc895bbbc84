// Package adapter is the host-facing protocol loop: a trimmed UCI-style
// line reader that wires SelectMove to stdin/stdout. Every line of
// move-search logic lives in internal/search; this package only parses
// commands and formats replies.
//
// Grounded on hailam-chessplay/internal/uci/uci.go's command-dispatch shape
// (bufio.Scanner read loop, strings.Fields tokenizing, a switch over the
// command word) trimmed to the commands needed to exercise SelectMove end
// to end — setoption, ponderhit, multi-PV and the teacher's tablebase/book
// UCI options are not carried over, since tablebases, books and protocol
// completeness are explicit non-goals.
package adapter

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/kestrelchess/engine/internal/board"
	"github.com/kestrelchess/engine/internal/nnue"
	"github.com/kestrelchess/engine/internal/search"
)

// Engine holds the one position the protocol loop operates on and the
// game-history hash stack SelectMove needs for repetition detection.
type Engine struct {
	net    *nnue.Network
	logger *log.Logger

	pos    *board.Position
	hashes []uint64
}

// NewEngine constructs an Engine around an already-loaded network. logger
// may be nil to suppress progress reporting.
func NewEngine(net *nnue.Network, logger *log.Logger) *Engine {
	return &Engine{net: net, logger: logger}
}

// Run reads commands from in, one per line, and writes replies to out,
// until "quit" or EOF.
func (e *Engine) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "uci":
			fmt.Fprintln(out, "id name kestrelchess")
			fmt.Fprintln(out, "id author kestrelchess contributors")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "ucinewgame":
			e.pos = nil
			e.hashes = nil
		case "position":
			if err := e.handlePosition(fields[1:]); err != nil {
				fmt.Fprintf(out, "info string %v\n", err)
			}
		case "go":
			if err := e.handleGo(fields[1:], out); err != nil {
				fmt.Fprintf(out, "info string %v\n", err)
			}
		case "quit":
			return nil
		default:
			fmt.Fprintf(out, "info string unknown command %q\n", fields[0])
		}
	}
	return scanner.Err()
}

// handlePosition parses "position [startpos | fen <FEN>] [moves m1 m2 ...]".
func (e *Engine) handlePosition(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("position: missing startpos/fen")
	}

	var rest []string
	var pos *board.Position
	var err error

	switch fields[0] {
	case "startpos":
		pos, err = board.ParseFEN(board.StartFEN)
		rest = fields[1:]
	case "fen":
		end := 1
		for end < len(fields) && fields[end] != "moves" {
			end++
		}
		pos, err = board.ParseFEN(strings.Join(fields[1:end], " "))
		rest = fields[end:]
	default:
		return fmt.Errorf("position: expected startpos or fen, got %q", fields[0])
	}
	if err != nil {
		return fmt.Errorf("position: %w", err)
	}

	e.pos = pos
	e.pos.UpdateCheckers()
	e.hashes = e.hashes[:0]

	if len(rest) > 0 && rest[0] == "moves" {
		for _, s := range rest[1:] {
			m, err := board.ParseMove(s, e.pos)
			if err != nil {
				return fmt.Errorf("position: move %q: %w", s, err)
			}
			e.hashes = append(e.hashes, e.pos.Hash)
			e.pos.MakeMove(m)
		}
	}

	return nil
}

// handleGo parses the subset of UCI "go" options §6's TimeControl covers:
// depth, nodes, movetime, wtime/btime/winc/binc, infinite.
func (e *Engine) handleGo(fields []string, out io.Writer) error {
	if e.pos == nil {
		return fmt.Errorf("go: no position set")
	}

	tc := search.TimeControl{Kind: search.TCInfinite}
	var wtime, btime, winc, binc int64
	haveClock := false

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			i++
			d, _ := strconv.Atoi(fields[i])
			tc = search.TimeControl{Kind: search.TCDepth, Depth: d}
		case "nodes":
			i++
			n, _ := strconv.ParseUint(fields[i], 10, 64)
			tc = search.TimeControl{Kind: search.TCNodes, Nodes: n}
		case "movetime":
			i++
			ms, _ := strconv.Atoi(fields[i])
			tc = search.TimeControl{Kind: search.TCMoveTime, MoveTime: time.Duration(ms) * time.Millisecond}
		case "wtime":
			i++
			wtime, _ = strconv.ParseInt(fields[i], 10, 64)
			haveClock = true
		case "btime":
			i++
			btime, _ = strconv.ParseInt(fields[i], 10, 64)
			haveClock = true
		case "winc":
			i++
			winc, _ = strconv.ParseInt(fields[i], 10, 64)
		case "binc":
			i++
			binc, _ = strconv.ParseInt(fields[i], 10, 64)
		case "infinite":
			tc = search.TimeControl{Kind: search.TCInfinite}
		}
	}

	if haveClock && tc.Kind == search.TCInfinite {
		clock, inc := wtime, winc
		if e.pos.SideToMove == board.Black {
			clock, inc = btime, binc
		}
		tc = search.TimeControl{Kind: search.TCTimed, Clock: search.PlayerClock{RemainingMs: clock, IncrementMs: inc}}
	}

	sb := board.NewSearchBoard(e.pos)
	best, _, err := search.SelectMove(sb, e.net, e.hashes, tc, e.logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "bestmove %s\n", sb.FormatMove(best))
	return nil
}
