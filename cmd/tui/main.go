package main

import (
	"fmt"
	"os"

	"github.com/almahoozi/deckpanel/internal/tuiapp"
)

func main() {
	run := tuiapp.Run
	if len(os.Args) > 1 && os.Args[1] == "config" {
		run = tuiapp.RunConfigEditor
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
