// Command perft counts leaf nodes of the legal move tree, the standard check
// for a move generator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/benbeisheim/chess-engine-backend/internal/engine"
	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 on success, 1 when -verify finds a mismatch and 2 on bad
// input.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", engine.StartFEN, "position to count from")
	depth := fs.Int("depth", 3, "plies to count")
	divide := fs.Bool("divide", false, "print the count below each root move")
	verify := fs.Bool("verify", false, "compare counts against an independent generator")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	pos, turn, err := engine.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	fmt.Fprint(stdout, pos)

	var oracle dragontoothmg.Board
	if *verify {
		oracle = dragontoothmg.ParseFen(*fen)
	}

	if *divide {
		counts := engine.Divide(pos, turn, *depth)
		moves := maps.Keys(counts)
		slices.SortFunc(moves, func(a, b engine.Move) bool { return a.String() < b.String() })
		var total uint64
		for _, m := range moves {
			fmt.Fprintf(stdout, "%s: %d\n", m, counts[m])
			total += counts[m]
		}
		line := fmt.Sprintf("\nmoves %d, nodes %d", len(moves), total)
		ok := true
		if *verify {
			line, ok = check(line, total, oraclePerft(&oracle, *depth))
		}
		fmt.Fprintln(stdout, line)
		if !ok {
			return 1
		}
		return 0
	}

	mismatch := false
	for d := 1; d <= *depth; d++ {
		start := time.Now()
		n := engine.Perft(pos, turn, d)
		elapsed := time.Since(start)
		line := fmt.Sprintf("perft(%d) = %d  %s", d, n, elapsed.Round(time.Millisecond))
		if *verify {
			var ok bool
			if line, ok = check(line, n, oraclePerft(&oracle, d)); !ok {
				mismatch = true
			}
		}
		fmt.Fprintln(stdout, line)
	}
	if mismatch {
		return 1
	}
	return 0
}

func check(line string, got, want uint64) (string, bool) {
	if got != want {
		return line + fmt.Sprintf("  MISMATCH want %d", want), false
	}
	return line + "  ok", true
}

func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		undo()
	}
	return nodes
}
