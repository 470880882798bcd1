package main

import (
	"os"

	"e2estore/cmd/e2estore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
