// cmd/hookforge/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	ctx := newCommandContext()
	cmd := newRootCommand(ctx)
	err := cmd.Execute()
	ctx.close()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
