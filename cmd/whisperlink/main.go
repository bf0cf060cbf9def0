package main

import (
	"os"

	"whisperlink/cmd/whisperlink/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
