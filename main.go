package main

import (
	"os"

	"github.com/hitenkalda/SpreadSheets/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
