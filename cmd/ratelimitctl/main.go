// Command ratelimitctl drives and demonstrates the ratelimiter package.
package main

import (
	"fmt"
	"os"

	"github.com/sergii-sakharov/ratelimiter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
