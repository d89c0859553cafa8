package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gourmetto/internal/cli"
	"gourmetto/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(cli.NewApp(config.LoadClient()))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "rhctl:", err)
		stop()
		os.Exit(1)
	}
}
