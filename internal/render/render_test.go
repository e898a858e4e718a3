package render

import (
	"testing"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/amaumene/cinesearch/internal/services/omdb"
	"github.com/stretchr/testify/assert"
)

func batmanView(mode models.ViewMode) controllers.SearchView {
	filters := search.DefaultFilters(10, mode)
	filters.SearchTerm = "batman"
	return controllers.SearchView{
		Filters: filters,
		Data: &models.SearchResultPage{
			Items: []models.MovieSummary{
				{Title: "Batman Begins", Year: "2005", IMDbID: "tt0372784", Type: models.MediaTypeMovie, Poster: "https://example.com/bb.jpg"},
				{Title: "Batman Beyond", Year: "1999–2001", IMDbID: "tt0147746", Type: models.MediaTypeSeries, Poster: "N/A"},
			},
			TotalResults: 34,
			ResponseOK:   true,
		},
		TotalPages: 4,
	}
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Movie", TypeLabel(models.MediaTypeMovie))
	assert.Equal(t, "Series", TypeLabel(models.MediaTypeSeries))
	assert.Equal(t, "Episode", TypeLabel(models.MediaTypeEpisode))
	assert.Equal(t, "All types", TypeLabel(models.MediaTypeAny))
}

func TestResultsTable(t *testing.T) {
	out := Results(batmanView(models.ViewTable), models.ThemeLight)

	assert.Contains(t, out, "IMDb ID")
	assert.Contains(t, out, "tt0372784")
	assert.Contains(t, out, "https://example.com/bb.jpg")
	assert.Contains(t, out, noPosterText)
	assert.Contains(t, out, "Page 1 of 4")
	assert.Contains(t, out, "34 results")
}

func TestResultsGrid(t *testing.T) {
	out := Results(batmanView(models.ViewGrid), models.ThemeDark)

	assert.Contains(t, out, "Batman Begins")
	assert.Contains(t, out, "Series")
	assert.Contains(t, out, noPosterText)
	assert.NotContains(t, out, "IMDb ID")
}

func TestResultsStates(t *testing.T) {
	idle := controllers.SearchView{Filters: search.DefaultFilters(10, models.ViewGrid)}
	assert.Contains(t, Results(idle, models.ThemeLight), "at least 3 characters")

	loading := idle
	loading.IsLoading = true
	assert.Contains(t, Results(loading, models.ThemeLight), "Loading")

	failed := idle
	failed.Error = &omdb.Error{Kind: omdb.KindAPI, Message: "Movie not found!"}
	assert.Contains(t, Results(failed, models.ThemeLight), "Movie not found!")

	empty := batmanView(models.ViewGrid)
	empty.Data.Items = nil
	assert.Contains(t, Results(empty, models.ThemeLight), "No results")
}

func TestDetail(t *testing.T) {
	rated := "R"
	plot := "A computer hacker learns about the true nature of reality."
	view := controllers.DetailView{Data: &models.MovieDetail{
		Title:   "The Matrix",
		Year:    "1999",
		IMDbID:  "tt0133093",
		Type:    models.MediaTypeMovie,
		Rated:   &rated,
		Plot:    &plot,
		Ratings: []models.Rating{{Source: "Internet Movie Database", Value: "8.7/10"}},
	}}

	out := Detail(view, models.ThemeLight)
	assert.Contains(t, out, "The Matrix (1999)")
	assert.Contains(t, out, "Rated: R")
	assert.Contains(t, out, "8.7/10")
	assert.Contains(t, out, "true nature")
	assert.Contains(t, out, noPosterText)
	assert.NotContains(t, out, "Box office", "missing fields are skipped")

	assert.Contains(t, Detail(controllers.DetailView{}, models.ThemeDark), "Nothing selected")
}
