package main

import (
	"os"

	"github.com/dmitriimasiakin/pd-bot/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
