package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Flogas0833/synchronization-problems/cmd/syncprobs/commands"
)

const (
	cmdName = "syncprobs"

	shortDesc = "Classic synchronization problems, live in your terminal."
	longDesc  = `Classic synchronization problems, live in your terminal.

Syncprobs runs the sleeping barber, the cigarette smokers, and the river
crossing scenarios on top of a small library of synchronization primitives,
and replays the interleaving that corrupts a naive lock-free stack through
node reuse.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
