package main

import (
	"os"

	"github.com/abhisek/timez/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
