package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/amaumene/cinesearch/internal/app"
	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/render"
	"github.com/spf13/cobra"
)

func newDetailCommand() *cobra.Command {
	var (
		req      controllers.DetailRequest
		plot     string
		typ      string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "detail [imdb-id]",
		Short: "Show one title by IMDb id or exact title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.ID = args[0]
			}
			if req.ID == "" && strings.TrimSpace(req.Title) == "" {
				return fmt.Errorf("an IMDb id or --title is required")
			}

			req.Plot = models.PlotLength(strings.ToLower(plot))
			if req.Plot != models.PlotShort && req.Plot != models.PlotFull {
				return fmt.Errorf("plot must be short or full")
			}
			req.Type = models.MediaType(strings.ToLower(typ))
			if !req.Type.Valid() {
				return fmt.Errorf("unknown type %q", typ)
			}

			return withSession(func(ctx context.Context, session *app.Session) error {
				view := session.SearchCtrl.Detail(ctx, req, true)

				if jsonMode {
					if err := printJSON(cmd.OutOrStdout(), view); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), render.Detail(view, session.Theme))
				}

				if view.Error != nil {
					return view.Error
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Title, "title", "", "exact title to look up")
	flags.StringVar(&req.Year, "year", "", "release year")
	flags.StringVar(&typ, "type", "", "movie, series or episode")
	flags.StringVar(&plot, "plot", string(models.PlotFull), "short or full")
	flags.BoolVar(&jsonMode, "json", false, "print the raw view as JSON")

	return cmd
}
