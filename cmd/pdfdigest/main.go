package main

import (
	"fmt"
	"os"

	"github.com/cognicore/pdfdigest/internal/commands"
)

func main() {
	if err := commands.NewApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
