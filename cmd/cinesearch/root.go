package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/amaumene/cinesearch/internal/app"
	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinesearch",
		Short:         "Search the OMDb movie catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newSearchCommand(),
		newDetailCommand(),
		newThemeCommand(),
	)
	return root
}

// withSession loads configuration and builds the one-shot graph. Logs go
// to stderr so stdout only carries results.
func withSession(fn func(ctx context.Context, session *app.Session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := utils.NewStderrLogger(cfg.LogLevel)

	session, cleanup, err := app.InitializeSession(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer cleanup()

	// One upstream round trip plus a little slack
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()

	return fn(ctx, session)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
