// Package render formats search and detail views for the terminal
package render

import (
	"fmt"
	"strings"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	cardWidth    = 28
	cardsPerRow  = 3
	welcomeText  = "Type at least 3 characters to search for movies, series and episodes."
	noPosterText = "No poster"
)

var titleCaser = cases.Title(language.English)

// TypeLabel returns the display label of a type filter
func TypeLabel(t models.MediaType) string {
	if t == models.MediaTypeAny {
		return "All types"
	}
	return titleCaser.String(string(t))
}

// Results renders a search view in its selected layout
func Results(view controllers.SearchView, theme models.ThemeMode) string {
	st := ForTheme(theme)

	switch {
	case view.Error != nil && view.Data == nil:
		return st.Error.Render(view.Error.Message)
	case view.Data == nil && view.IsLoading:
		return st.Dim.Render("Loading...")
	case view.Data == nil:
		return st.Dim.Render(welcomeText)
	case len(view.Data.Items) == 0:
		return st.Dim.Render("No results.")
	}

	var body string
	if view.Filters.ViewMode == models.ViewTable {
		body = Table(view.Data.Items, st)
	} else {
		body = Grid(view.Data.Items, st)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, st.Footer.Render(footer(view)))
}

func footer(view controllers.SearchView) string {
	parts := []string{
		fmt.Sprintf("Page %d of %d", view.Filters.Page, view.TotalPages),
		fmt.Sprintf("%d results", view.Data.TotalResults),
	}
	if view.Filters.Year != "" {
		parts = append(parts, "year "+view.Filters.Year)
	}
	parts = append(parts, TypeLabel(view.Filters.Type))
	if view.IsValidating {
		parts = append(parts, "refreshing")
	}
	return strings.Join(parts, " · ")
}

// Grid lays the items out as cards
func Grid(items []models.MovieSummary, st Styles) string {
	rows := make([]string, 0, (len(items)+cardsPerRow-1)/cardsPerRow)
	for start := 0; start < len(items); start += cardsPerRow {
		end := min(start+cardsPerRow, len(items))

		cards := make([]string, 0, cardsPerRow)
		for _, item := range items[start:end] {
			cards = append(cards, card(item, st))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func card(item models.MovieSummary, st Styles) string {
	poster := noPosterText
	if item.HasPoster() {
		poster = "Poster available"
	}

	return st.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		st.Title.Render(item.Title),
		st.Meta.Render(item.Year+" · "+TypeLabel(item.Type)),
		st.Dim.Render(poster),
	))
}

// Table lays the items out as rows
func Table(items []models.MovieSummary, st Styles) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("Title", "Year", "Type", "IMDb ID", "Poster").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		})

	for _, item := range items {
		poster := item.Poster
		if !item.HasPoster() {
			poster = noPosterText
		}
		t.Row(item.Title, item.Year, TypeLabel(item.Type), item.IMDbID, poster)
	}
	return t.String()
}

// Detail renders a single title
func Detail(view controllers.DetailView, theme models.ThemeMode) string {
	st := ForTheme(theme)

	switch {
	case view.Error != nil && view.Data == nil:
		return st.Error.Render(view.Error.Message)
	case view.Data == nil && view.IsLoading:
		return st.Dim.Render("Loading...")
	case view.Data == nil:
		return st.Dim.Render("Nothing selected.")
	}

	d := view.Data
	lines := []string{
		st.Title.Render(fmt.Sprintf("%s (%s)", d.Title, d.Year)),
		st.Meta.Render(TypeLabel(d.Type) + " · " + d.IMDbID),
	}

	fields := []struct {
		label string
		value *string
	}{
		{"Rated", d.Rated},
		{"Released", d.Released},
		{"Runtime", d.Runtime},
		{"Genre", d.Genre},
		{"Director", d.Director},
		{"Writer", d.Writer},
		{"Actors", d.Actors},
		{"Language", d.Language},
		{"Country", d.Country},
		{"Awards", d.Awards},
		{"IMDb rating", d.IMDbRating},
		{"Metascore", d.Metascore},
		{"Box office", d.BoxOffice},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		lines = append(lines, st.Meta.Render(f.label+":")+" "+*f.value)
	}

	for _, r := range d.Ratings {
		lines = append(lines, st.Meta.Render(r.Source+":")+" "+r.Value)
	}

	if d.Plot != nil {
		lines = append(lines, "", lipgloss.NewStyle().Width(72).Render(*d.Plot))
	}
	if d.Poster == nil {
		lines = append(lines, st.Dim.Render(noPosterText))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
