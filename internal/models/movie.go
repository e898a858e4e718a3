package models

// MovieSummary is one row of a search result page
type MovieSummary struct {
	Title  string    `json:"title"`
	Year   string    `json:"year"`
	IMDbID string    `json:"imdbId"`
	Type   MediaType `json:"type"`
	Poster string    `json:"poster"` // URL or "N/A"
}

// HasPoster reports whether Poster points at an image
func (m MovieSummary) HasPoster() bool {
	return m.Poster != "" && m.Poster != NotAvailable
}

// SearchResultPage is one page of search results
type SearchResultPage struct {
	Items        []MovieSummary `json:"items"`
	TotalResults int            `json:"totalResults"`
	ResponseOK   bool           `json:"responseOk"`
}

// Rating is a score from a single source (IMDb, Rotten Tomatoes, Metacritic...)
type Rating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

// MovieDetail holds the full metadata of a single title.
// Optional fields are nil when the upstream reports them as "N/A".
type MovieDetail struct {
	IMDbID string    `json:"imdbId"`
	Title  string    `json:"title"`
	Year   string    `json:"year"`
	Type   MediaType `json:"type"`

	Rated      *string  `json:"rated"`
	Released   *string  `json:"released"`
	Runtime    *string  `json:"runtime"`
	Genre      *string  `json:"genre"`
	Director   *string  `json:"director"`
	Writer     *string  `json:"writer"`
	Actors     *string  `json:"actors"`
	Plot       *string  `json:"plot"`
	Language   *string  `json:"language"`
	Country    *string  `json:"country"`
	Awards     *string  `json:"awards"`
	Poster     *string  `json:"poster"`
	Ratings    []Rating `json:"ratings"`
	Metascore  *string  `json:"metascore"`
	IMDbRating *string  `json:"imdbRating"`
	IMDbVotes  *string  `json:"imdbVotes"`
	DVD        *string  `json:"dvd"`
	BoxOffice  *string  `json:"boxOffice"`
	Production *string  `json:"production"`
	Website    *string  `json:"website"`
}

// Optional converts an upstream string into a nullable value
func Optional(value string) *string {
	if value == "" || value == NotAvailable {
		return nil
	}
	return &value
}
