//go:build !tinygo

// Command simlint checks stimulus scripts before they are replayed.
package main

import (
	"flag"
	"fmt"
	"os"

	"boardloop/sim"
)

func main() {
	quiet := flag.Bool("q", false, "Only report invalid scripts.")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: simlint [-q] script.yaml...")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := 0
	for _, path := range flag.Args() {
		s, err := sim.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		if *quiet {
			continue
		}
		loop := "once"
		if s.LoopMS > 0 {
			loop = "looping"
		}
		fmt.Printf("%s: ok, %d steps, %s, %s\n", path, len(s.Steps), s.Duration(), loop)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
