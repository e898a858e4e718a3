package main

import (
	"fmt"

	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/spf13/cobra"
)

func newThemeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Print the saved theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTheme(func(ctrl *controllers.ThemeController) error {
				fmt.Fprintln(cmd.OutOrStdout(), ctrl.Mode())
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTheme(func(ctrl *controllers.ThemeController) error {
				mode, err := ctrl.Toggle()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), mode)
				return nil
			})
		},
	})

	return cmd
}

// withTheme opens the preference database for writing. It fails while a
// server holds the lock; use the HTTP API then.
func withTheme(fn func(ctrl *controllers.ThemeController) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := utils.NewStderrLogger(cfg.LogLevel)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	ctrl, err := controllers.NewThemeController(db, logger)
	if err != nil {
		return err
	}
	return fn(ctrl)
}
