package main

import (
	"os"

	"github.com/staffmatch/staffmatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
