package main

import (
	"os"

	"github.com/happykids/kidsdiag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
