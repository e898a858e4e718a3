package controllers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/query"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/amaumene/cinesearch/internal/services/omdb"
	"github.com/sirupsen/logrus"
)

// MovieSource is the upstream the controller reads from
type MovieSource interface {
	Search(ctx context.Context, q omdb.SearchQuery) (*models.SearchResultPage, error)
	Detail(ctx context.Context, q omdb.DetailQuery) (*models.MovieDetail, error)
}

// SearchView is the state exposed for the result list
type SearchView struct {
	Filters      search.Filters           `json:"filters"`
	Data         *models.SearchResultPage `json:"data"`
	Error        *omdb.Error              `json:"error"`
	IsLoading    bool                     `json:"isLoading"`
	IsValidating bool                     `json:"isValidating"`
	IsPrevious   bool                     `json:"isPrevious"`
	TotalPages   int                      `json:"totalPages"`
}

// DetailRequest selects a title by id or exact title
type DetailRequest struct {
	ID    string
	Title string
	Type  models.MediaType
	Year  string
	Plot  models.PlotLength
}

// DetailView is the state exposed for the detail panel
type DetailView struct {
	Data         *models.MovieDetail `json:"data"`
	Error        *omdb.Error         `json:"error"`
	IsLoading    bool                `json:"isLoading"`
	IsValidating bool                `json:"isValidating"`
}

// SearchController connects the filter store to the query cache
type SearchController struct {
	store       *search.Store
	debouncer   *search.Debouncer
	cache       *query.Cache
	results     *query.Observer[*models.SearchResultPage]
	details     *query.Observer[*models.MovieDetail]
	source      MovieSource
	minLength   int
	logger      *logrus.Logger
	unsubscribe func()
}

// NewSearchController creates a new search controller and starts
// observing the store's current filters
func NewSearchController(store *search.Store, cache *query.Cache, source MovieSource, cfg *config.Config, logger *logrus.Logger) *SearchController {
	c := &SearchController{
		store:     store,
		cache:     cache,
		results:   query.NewObserver[*models.SearchResultPage](cache, true),
		details:   query.NewObserver[*models.MovieDetail](cache, false),
		source:    source,
		minLength: cfg.MinSearchLength,
		logger:    logger,
	}

	c.debouncer = search.NewDebouncer(cfg.DebounceWindow, cfg.MinSearchLength, func(term string) {
		c.Dispatch(search.SetSearchTerm{Term: term})
	})

	c.unsubscribe = store.Subscribe(func(prev, next search.Filters) {
		c.observe(next)
	})
	c.observe(store.State())

	return c
}

// Dispatch applies an intent to the filter store
func (c *SearchController) Dispatch(intent search.Intent) search.Filters {
	return c.store.Dispatch(intent)
}

// Input feeds raw search field text through the debouncer
func (c *SearchController) Input(raw string) {
	c.debouncer.Input(raw)
}

// Filters returns the current filter state
func (c *SearchController) Filters() search.Filters {
	return c.store.State()
}

// observe points the result observer at the query derived from f and
// starts loading it
func (c *SearchController) observe(f search.Filters) {
	q := f.SearchQuery()
	key := query.KeyFor(c.primaryTerm(f.SearchTerm), q.Params())

	if key != c.results.Key() {
		c.logger.WithFields(logrus.Fields{
			"term": f.SearchTerm,
			"year": f.Year,
			"type": f.Type,
			"page": f.Page,
		}).Debug("Search filters changed")
	}

	c.results.Watch(key, c.searchFetcher(q))
	c.results.Read(context.Background())
}

// primaryTerm returns the term if it is long enough to be queried
func (c *SearchController) primaryTerm(term string) string {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < c.minLength {
		return ""
	}
	return term
}

func (c *SearchController) searchFetcher(q omdb.SearchQuery) query.Fetcher {
	return func(ctx context.Context) (any, error) {
		page, err := c.source.Search(ctx, q)
		if err != nil {
			return nil, omdb.Normalize(err)
		}
		return page, nil
	}
}

// Results returns the current result view. With wait it blocks until the
// current query has data or an error, or ctx is done.
func (c *SearchController) Results(ctx context.Context, wait bool) SearchView {
	filters := c.store.State()

	var v query.View[*models.SearchResultPage]
	if wait {
		v = c.results.Wait(ctx)
	} else {
		v = c.results.Read(ctx)
	}

	view := SearchView{
		Filters:      filters,
		Error:        omdb.Normalize(v.Err),
		IsLoading:    v.IsLoading,
		IsValidating: v.IsValidating,
		IsPrevious:   v.IsPrevious,
	}
	if v.HasData {
		view.Data = v.Data
		view.TotalPages = search.PageCount(v.Data.TotalResults, filters.PageSize)
	}
	return view
}

// FirstPage moves to page 1
func (c *SearchController) FirstPage() search.Filters {
	return c.Dispatch(search.SetPage{Page: 1})
}

// LastPage moves to the last page of the current result
func (c *SearchController) LastPage(ctx context.Context) search.Filters {
	last := c.Results(ctx, false).TotalPages
	if last < 1 {
		last = 1
	}
	return c.Dispatch(search.SetPage{Page: last})
}

// Detail returns the view for one title. Plot defaults to full.
func (c *SearchController) Detail(ctx context.Context, req DetailRequest, wait bool) DetailView {
	if req.Plot == "" {
		req.Plot = models.PlotFull
	}
	q := omdb.DetailQuery{
		ID:    strings.TrimSpace(req.ID),
		Title: strings.TrimSpace(req.Title),
		Type:  req.Type,
		Year:  req.Year,
		Plot:  req.Plot,
	}

	// The detail observer is shared; read back this request's own key
	key, fetch := query.KeyFor(q.Identifier(), q.Params()), c.detailFetcher(q)
	c.details.Watch(key, fetch)

	var v query.View[*models.MovieDetail]
	if wait {
		v = c.details.WaitKey(ctx, key, fetch)
	} else {
		v = c.details.ReadKey(ctx, key, fetch)
	}

	view := DetailView{
		Error:        omdb.Normalize(v.Err),
		IsLoading:    v.IsLoading,
		IsValidating: v.IsValidating,
	}
	if v.HasData {
		view.Data = v.Data
	}
	return view
}

func (c *SearchController) detailFetcher(q omdb.DetailQuery) query.Fetcher {
	return func(ctx context.Context) (any, error) {
		detail, err := c.source.Detail(ctx, q)
		if err != nil {
			return nil, omdb.Normalize(err)
		}
		return detail, nil
	}
}

// SetFocused records whether the presentation layer is visible
func (c *SearchController) SetFocused(focused bool) {
	c.logger.WithField("focused", focused).Debug("Focus changed")
	c.cache.SetFocused(focused)
}

// Close stops the debouncer and releases observed queries
func (c *SearchController) Close() {
	c.unsubscribe()
	c.debouncer.Stop()
	c.results.Close()
	c.details.Close()
}
