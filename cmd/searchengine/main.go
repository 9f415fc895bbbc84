// Command searchengine runs the headless move-search core behind a
// trimmed UCI-style protocol loop on stdin/stdout.
//
// Grounded on hailam-chessplay's cmd/chessplay-uci/main.go and root main.go
// for the flag-parsing/startup shape (log.Fatal on a fatal startup error,
// no third-party CLI framework — the teacher uses the standard library
// flag package throughout, and so does this binary).
package main

import (
	"flag"
	"log"
	"os"

	"github.com/kestrelchess/engine/internal/adapter"
	"github.com/kestrelchess/engine/internal/nnue"
)

func main() {
	weights := flag.String("weights", "", "path to the NNUE weight file")
	flag.Parse()

	logger := log.New(os.Stdout, "", 0)

	if *weights == "" {
		log.Fatal("searchengine: -weights is required")
	}

	net, err := nnue.Load(*weights)
	if err != nil {
		log.Fatalf("searchengine: %v", err)
	}

	eng := adapter.NewEngine(net, logger)
	if err := eng.Run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("searchengine: %v", err)
	}
}
