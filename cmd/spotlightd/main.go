// Command spotlightd is the real-time webcam background-effects daemon.
package main

import (
	"fmt"
	"os"

	"github.com/ranjodhsingh/spotlight/cmd/spotlightd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "spotlightd:", err)
		os.Exit(1)
	}
}
