// Package main is the entry point for the sift CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/sift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
