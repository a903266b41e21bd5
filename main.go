package main

import (
	"os"

	"github.com/bootsmith/bootsmith/cmd"
)

func main() {
	if err := cmd.GetRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
