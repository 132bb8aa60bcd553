// Package main implements the tms command: the task management API server
// and the operational subcommands that go with it.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
