package main

import (
	"os"

	"dialysis_autofill/presentation/terminal"
)

func main() {
	if err := terminal.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
