package main

import (
	"os"
)

// Program entry point

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
