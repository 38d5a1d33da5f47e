package main

import (
	"os"

	"github.com/sailshr/wow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
