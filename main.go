package main

import (
	"os"

	"github.com/akshat/stint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
