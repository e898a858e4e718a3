package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/amaumene/cinesearch/internal/app"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/render"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	year     string
	typ      string
	page     int
	rows     int
	view     string
	jsonMode bool
}

func newSearchCommand() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search titles and print one page of results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := opts.partial(strings.Join(args, " "))
			if err != nil {
				return err
			}

			return withSession(func(ctx context.Context, session *app.Session) error {
				return runSearch(ctx, cmd, session, partial, opts.jsonMode)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.year, "year", "", "release year")
	flags.StringVar(&opts.typ, "type", "", "movie, series or episode")
	flags.IntVar(&opts.page, "page", 1, "page number")
	flags.IntVar(&opts.rows, "rows", 0, "rows per page (default from configuration)")
	flags.StringVar(&opts.view, "view", "", "grid or table")
	flags.BoolVar(&opts.jsonMode, "json", false, "print the raw view as JSON")

	return cmd
}

// partial validates the flags and turns them into a single filter update
func (o *searchOptions) partial(term string) (search.Partial, error) {
	p := search.Partial{SearchTerm: &term, Page: &o.page}

	if o.year != "" {
		p.Year = &o.year
	}
	if o.typ != "" {
		t := models.MediaType(strings.ToLower(o.typ))
		if !t.Valid() {
			return p, fmt.Errorf("unknown type %q", o.typ)
		}
		p.Type = &t
	}
	if o.rows != 0 {
		if o.rows < 1 {
			return p, fmt.Errorf("rows must be at least 1")
		}
		p.PageSize = &o.rows
	}
	if o.view != "" {
		v := models.ViewMode(strings.ToLower(o.view))
		if !v.Valid() {
			return p, fmt.Errorf("view must be grid or table")
		}
		p.ViewMode = &v
	}
	return p, nil
}

func runSearch(ctx context.Context, cmd *cobra.Command, session *app.Session, p search.Partial, jsonMode bool) error {
	session.SearchCtrl.Dispatch(search.SetAllFilters{Filters: p})
	view := session.SearchCtrl.Results(ctx, true)

	if jsonMode {
		if err := printJSON(cmd.OutOrStdout(), view); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), render.Results(view, session.Theme))
	}

	if view.Error != nil {
		return view.Error
	}
	return nil
}
