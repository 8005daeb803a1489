// Command staffing serves the employer, employee and client collections over
// HTTP and exports them to blob storage.
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var exitFunc = os.Exit

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		exitFunc(1)
	}
}
