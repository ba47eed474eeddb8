// Package main is the entry point for aliasrun, which runs Lua scripts
// with function aliases declared in code or in manifests.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := newRootCmd(fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
