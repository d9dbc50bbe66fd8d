package main

import (
	"os"

	"github.com/ledgermatch/ledgermatch/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
