package models

// MediaType represents the kind of title the upstream API indexes
type MediaType string

const (
	MediaTypeAny     MediaType = "" // No type filter
	MediaTypeMovie   MediaType = "movie"
	MediaTypeSeries  MediaType = "series"
	MediaTypeEpisode MediaType = "episode"
)

// MediaTypes lists the selectable type filters in display order
var MediaTypes = []MediaType{MediaTypeMovie, MediaTypeSeries, MediaTypeEpisode}

// Valid reports whether t is a known type or unset
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeAny, MediaTypeMovie, MediaTypeSeries, MediaTypeEpisode:
		return true
	}
	return false
}

// ViewMode represents how a result page is laid out
type ViewMode string

const (
	ViewGrid  ViewMode = "grid"
	ViewTable ViewMode = "table"
)

// Valid reports whether m is grid or table
func (m ViewMode) Valid() bool {
	return m == ViewGrid || m == ViewTable
}

// ThemeMode represents the light/dark preference
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Toggled returns the opposite mode
func (m ThemeMode) Toggled() ThemeMode {
	if m == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// PlotLength selects the plot summary returned by detail lookups
type PlotLength string

const (
	PlotShort PlotLength = "short"
	PlotFull  PlotLength = "full"
)

// NotAvailable is the upstream placeholder for missing values
const NotAvailable = "N/A"
