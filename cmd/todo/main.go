package main

import (
	"tableflip.dev/todo/pkg/commands"
	"tableflip.dev/todo/pkg/logging"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		logging.Logger.Fatalf("error during command execution: %v", err)
	}
}
