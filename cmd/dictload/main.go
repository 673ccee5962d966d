// Command dictload warms, inspects and clears a tokenizer dictionary cache.
//
// Usage:
//
//	dictload warm   --source http --url https://cdn.example.com/kuromoji
//	dictload status --cache sqlite --cache-db shards.db
//	dictload clear
//
// Every flag can also be set through the environment with the DICTLOAD_
// prefix, e.g. DICTLOAD_CACHE_DIR=/var/cache/dictload, or a config file
// passed with --config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
