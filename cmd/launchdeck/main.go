// Command launchdeck runs the API and its operator tasks (migrate, seed, hash-key)
package main

import (
	"context"
	"fmt"
	"os"

	"launchdeck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "launchdeck:", err)
		os.Exit(1)
	}
}
