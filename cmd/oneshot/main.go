// Command oneshot is a command-line utility for running one-shot scheduled tasks
package main

import (
	"os"

	"github.com/go-phorce/oneshot/cmd/oneshot/pkg"
)

func main() {
	// Logs are set to os.Stderr, while output to os.Stdout
	rc := pkg.ParseAndRun("oneshot", os.Args, os.Stdout)
	os.Exit(int(rc))
}
