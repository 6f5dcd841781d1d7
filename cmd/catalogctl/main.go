package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/sheet"
)

// Version is set at build time
var Version = "dev"

// newRootCmd builds a fresh command tree so flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Browse and update the shared movie catalog from the terminal",
		Long: `catalogctl reads the same sheet as the web server, configured through
SHEET_BACKEND, SHEET_ID, WORKSHEET_NAME and friends (a .env file is honoured).
It needs no database: seen-flag changes made here are not audited.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCmd(), newRandomCmd(), newSeenCmd())
	return root
}

// openStore is replaced in tests.
var openStore = func(ctx context.Context) (sheet.Store, error) {
	return sheet.Open(ctx, config.LoadSheet())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
