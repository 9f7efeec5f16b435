// Command mintd runs the mint service and its operator tooling.
package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	app := initApp()
	if err := app.cliCmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("mintd failed", "error", err)
		os.Exit(1)
	}
}
