// Package search holds the user's filter, pagination and view selections
// and derives the upstream query from them.
package search

import (
	"strconv"
	"time"

	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/services/omdb"
)

// FirstYear is the oldest selectable release year
const FirstYear = 1888

// Filters is the complete search state
type Filters struct {
	SearchTerm string           `json:"searchTerm"`
	Year       string           `json:"year"`
	Type       models.MediaType `json:"type"`
	Page       int              `json:"page"`
	ViewMode   models.ViewMode  `json:"viewMode"`
	PageSize   int              `json:"pageSize"`
}

// DefaultFilters returns the state a session starts with
func DefaultFilters(pageSize int, viewMode models.ViewMode) Filters {
	if pageSize < 1 {
		pageSize = 1
	}
	if !viewMode.Valid() {
		viewMode = models.ViewGrid
	}
	return Filters{
		Page:     1,
		ViewMode: viewMode,
		PageSize: pageSize,
	}
}

// SearchQuery derives the upstream query for the current state
func (f Filters) SearchQuery() omdb.SearchQuery {
	return omdb.SearchQuery{
		Term:     f.SearchTerm,
		Year:     f.Year,
		Type:     f.Type,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
}

// Intent is a discrete state transition
type Intent interface {
	intent()
}

type (
	// SetSearchTerm replaces the search term and returns to page 1
	SetSearchTerm struct{ Term string }
	// SetYear replaces the year filter ("" clears it) and returns to page 1
	SetYear struct{ Year string }
	// SetType replaces the type filter and returns to page 1
	SetType struct{ Type models.MediaType }
	// SetRowsPerPage replaces the page size and returns to page 1
	SetRowsPerPage struct{ Rows int }
	// SetPage moves to another page and changes nothing else
	SetPage struct{ Page int }
	// SetViewMode switches between grid and table
	SetViewMode struct{ Mode models.ViewMode }
	// SetAllFilters merges a complete or partial filter set in one step
	SetAllFilters struct{ Filters Partial }
)

func (SetSearchTerm) intent()  {}
func (SetYear) intent()        {}
func (SetType) intent()        {}
func (SetRowsPerPage) intent() {}
func (SetPage) intent()        {}
func (SetViewMode) intent()    {}
func (SetAllFilters) intent()  {}

// Partial carries the fields to overwrite; nil fields are kept
type Partial struct {
	SearchTerm *string           `json:"searchTerm,omitempty"`
	Year       *string           `json:"year,omitempty"`
	Type       *models.MediaType `json:"type,omitempty"`
	Page       *int              `json:"page,omitempty"`
	ViewMode   *models.ViewMode  `json:"viewMode,omitempty"`
	PageSize   *int              `json:"pageSize,omitempty"`
}

// Reduce applies intent to state and returns the new state. Unknown
// intents return state unchanged.
func Reduce(state Filters, intent Intent) Filters {
	switch in := intent.(type) {
	case SetSearchTerm:
		state.SearchTerm = in.Term
		state.Page = 1
	case SetYear:
		state.Year = in.Year
		state.Page = 1
	case SetType:
		state.Type = in.Type
		if !state.Type.Valid() {
			state.Type = models.MediaTypeAny
		}
		state.Page = 1
	case SetRowsPerPage:
		state.PageSize = clampPositive(in.Rows)
		state.Page = 1
	case SetPage:
		state.Page = clampPositive(in.Page)
	case SetViewMode:
		if in.Mode.Valid() {
			state.ViewMode = in.Mode
		}
	case SetAllFilters:
		state = merge(state, in.Filters)
	}
	return state
}

// merge restores a filter set. Every filter change except SetPage returns
// to page 1, and a merge is a filter change: the page is kept only when
// the partial names one. A plain overlay of the partial would leave the
// old page pointing past the end of the new result.
func merge(state Filters, p Partial) Filters {
	if p.SearchTerm != nil {
		state.SearchTerm = *p.SearchTerm
	}
	if p.Year != nil {
		state.Year = *p.Year
	}
	if p.Type != nil && p.Type.Valid() {
		state.Type = *p.Type
	}
	if p.ViewMode != nil && p.ViewMode.Valid() {
		state.ViewMode = *p.ViewMode
	}
	if p.PageSize != nil {
		state.PageSize = clampPositive(*p.PageSize)
	}

	state.Page = 1
	if p.Page != nil {
		state.Page = clampPositive(*p.Page)
	}
	return state
}

func clampPositive(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// YearOptions lists selectable years from now's year down to FirstYear
func YearOptions(now time.Time) []string {
	current := now.Year()
	if current < FirstYear {
		return nil
	}

	years := make([]string, 0, current-FirstYear+1)
	for y := current; y >= FirstYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}
