package main

import (
	"github.com/avh-labs/audiencehub/internal/cli"
)

// main is the entry point for the audiencehub binary.
// It delegates to the CLI package which handles command parsing and execution.
func main() {
	cli.Execute()
}
