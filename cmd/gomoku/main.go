// gomoku is a console five-in-a-row engine. It reads coordinate moves
// ("h8") from stdin and answers with its own.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/herohde/gomoku/pkg/board"
	"github.com/herohde/gomoku/pkg/engine"
	"github.com/herohde/gomoku/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	size     = flag.Int("size", 15, "Board size N for an N×N grid")
	wink     = flag.Int("k", 5, "Number of consecutive stones to win")
	captures = flag.Int("captures", 0, "Captured pairs to win (zero disables the capture variant)")
	depth    = flag.Uint("depth", 8, "Search depth limit (zero if no limit)")
	movetime = flag.Duration("time", 5*time.Second, "Search time limit per move (zero if no limit)")
	hash     = flag.Uint("hash", 64, "Transposition table size in MB")
	workers  = flag.Uint("workers", 0, "Search workers (zero for all cores)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: gomoku [options]

Play five-in-a-row against the engine. Enter moves as column letter plus
1-based row, e.g. "h8". Commands: "undo", "quit".
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	cfg := board.Config{Size: *size, WinK: *wink, CaptureWin: *captures}

	var opts []engine.Option
	opts = append(opts, engine.WithHash(*hash))
	if *workers > 0 {
		opts = append(opts, engine.WithWorkers(*workers))
	}

	e, err := engine.New(ctx, cfg, opts...)
	if err != nil {
		logw.Exitf(ctx, "Engine creation failed: %v", err)
	}

	var sopt search.Options
	if *depth > 0 {
		sopt.DepthLimit = lang.Some(*depth)
	}
	if *movetime > 0 {
		sopt.MoveTime = lang.Some(*movetime)
	}

	logw.Infof(ctx, "gomoku engine: %v, search=%v", cfg, sopt)

	in := bufio.NewScanner(os.Stdin)
	for {
		b := e.Board()
		fmt.Println(b)

		if res := b.Result(); res.Outcome != board.Undecided {
			fmt.Printf("Game over: %v\n", res)
			return
		}

		fmt.Printf("%v> ", b.Turn())
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "quit", "exit":
			return
		case "undo":
			// Take back both the engine reply and the player move.
			_ = e.UndoMove()
			_ = e.UndoMove()
			continue
		case "":
			continue
		}

		m, err := board.ParseSquare(line)
		if err != nil {
			fmt.Printf("Invalid move: %v\n", err)
			continue
		}
		if err := e.MakeMove(m); err != nil {
			fmt.Printf("Rejected: %v\n", err)
			continue
		}

		if res := e.Board().Result(); res.Outcome != board.Undecided {
			fmt.Println(e.Board())
			fmt.Printf("Game over: %v\n", res)
			return
		}

		ret, err := e.FindBestMove(ctx, sopt)
		if err != nil {
			logw.Exitf(ctx, "Search failed: %v", err)
		}
		logw.Infof(ctx, "Playing %v", ret)
		if err := e.MakeMove(ret.BestMove); err != nil {
			logw.Exitf(ctx, "Engine move rejected: %v", err)
		}
	}
}
