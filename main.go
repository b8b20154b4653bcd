package main

import (
	"os"

	"github.com/karimjaber/mediarag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
