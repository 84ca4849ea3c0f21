// Command mapquery loads a style and a tile's features and runs hit tests
// against one layer from the command line.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "mapquery:", err)
		os.Exit(1)
	}
}
