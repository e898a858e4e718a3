package omdb

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/amaumene/cinesearch/internal/models"
)

// Outbound parameter names understood by the upstream API
const (
	ParamSearch = "s"
	ParamYear   = "y"
	ParamType   = "type"
	ParamPage   = "page"
	ParamID     = "i"
	ParamTitle  = "t"
	ParamPlot   = "plot"

	// ParamPageSize only feeds local pagination math and is stripped before sending
	ParamPageSize = "pageSize"

	paramAPIKey = "apikey"
)

// clientOnlyParams never leave the process
var clientOnlyParams = []string{ParamPageSize}

// envelope is the part shared by every upstream response
type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func (e envelope) ok() bool {
	return !strings.EqualFold(e.Response, "False")
}

// searchResponse represents the JSON response of a search request
type searchResponse struct {
	envelope
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// detailResponse represents the JSON response of a title lookup
type detailResponse struct {
	envelope
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
	Metascore  string `json:"Metascore"`
	IMDbRating string `json:"imdbRating"`
	IMDbVotes  string `json:"imdbVotes"`
	IMDbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	DVD        string `json:"DVD"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
	Website    string `json:"Website"`
}

// SearchQuery selects one page of search results
type SearchQuery struct {
	Term     string
	Year     string
	Type     models.MediaType
	Page     int
	PageSize int
}

// Params builds the parameter bag. Unset filters are left out entirely.
func (q SearchQuery) Params() url.Values {
	params := url.Values{}
	params.Set(ParamSearch, q.Term)
	if q.Year != "" {
		params.Set(ParamYear, q.Year)
	}
	if q.Type != models.MediaTypeAny {
		params.Set(ParamType, string(q.Type))
	}
	if q.Page > 0 {
		params.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	return params
}

// DetailQuery selects a single title by IMDb id or by exact title
type DetailQuery struct {
	ID    string
	Title string
	Type  models.MediaType
	Year  string
	Plot  models.PlotLength
}

// Identifier returns the id or title used to look the item up
func (q DetailQuery) Identifier() string {
	if q.ID != "" {
		return q.ID
	}
	return q.Title
}

// Params builds the parameter bag
func (q DetailQuery) Params() url.Values {
	params := url.Values{}
	if q.ID != "" {
		params.Set(ParamID, q.ID)
	}
	if q.Title != "" {
		params.Set(ParamTitle, q.Title)
	}
	if q.Type != models.MediaTypeAny {
		params.Set(ParamType, string(q.Type))
	}
	if q.Year != "" {
		params.Set(ParamYear, q.Year)
	}
	if q.Plot != "" {
		params.Set(ParamPlot, string(q.Plot))
	}
	return params
}

// toPage converts the wire response into a result page
func (r *searchResponse) toPage() *models.SearchResultPage {
	items := make([]models.MovieSummary, 0, len(r.Search))
	for _, item := range r.Search {
		items = append(items, models.MovieSummary{
			Title:  item.Title,
			Year:   item.Year,
			IMDbID: item.IMDbID,
			Type:   models.MediaType(strings.ToLower(item.Type)),
			Poster: item.Poster,
		})
	}

	total, err := strconv.Atoi(strings.TrimSpace(r.TotalResults))
	if err != nil || total < 0 {
		total = 0
	}

	return &models.SearchResultPage{
		Items:        items,
		TotalResults: total,
		ResponseOK:   r.ok(),
	}
}

// toDetail converts the wire response, nulling "N/A" fields
func (r *detailResponse) toDetail() *models.MovieDetail {
	ratings := make([]models.Rating, 0, len(r.Ratings))
	for _, rating := range r.Ratings {
		ratings = append(ratings, models.Rating{Source: rating.Source, Value: rating.Value})
	}

	return &models.MovieDetail{
		IMDbID:     r.IMDbID,
		Title:      r.Title,
		Year:       r.Year,
		Type:       models.MediaType(strings.ToLower(r.Type)),
		Rated:      models.Optional(r.Rated),
		Released:   models.Optional(r.Released),
		Runtime:    models.Optional(r.Runtime),
		Genre:      models.Optional(r.Genre),
		Director:   models.Optional(r.Director),
		Writer:     models.Optional(r.Writer),
		Actors:     models.Optional(r.Actors),
		Plot:       models.Optional(r.Plot),
		Language:   models.Optional(r.Language),
		Country:    models.Optional(r.Country),
		Awards:     models.Optional(r.Awards),
		Poster:     models.Optional(r.Poster),
		Ratings:    ratings,
		Metascore:  models.Optional(r.Metascore),
		IMDbRating: models.Optional(r.IMDbRating),
		IMDbVotes:  models.Optional(r.IMDbVotes),
		DVD:        models.Optional(r.DVD),
		BoxOffice:  models.Optional(r.BoxOffice),
		Production: models.Optional(r.Production),
		Website:    models.Optional(r.Website),
	}
}
