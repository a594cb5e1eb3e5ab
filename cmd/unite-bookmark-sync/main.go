package main

import (
	"context"
	"fmt"
	"os"

	"github.com/klauern/unite-bookmark-sync/internal/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
