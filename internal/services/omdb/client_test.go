package omdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/amaumene/cinesearch/internal/config"
	"github.com/amaumene/cinesearch/internal/metrics"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const batmanPage = `{
  "Search": [
    {"Title": "Batman Begins", "Year": "2005", "imdbID": "tt0372784", "Type": "movie", "Poster": "https://example.com/bb.jpg"},
    {"Title": "Batman: The Animated Series", "Year": "1992–1995", "imdbID": "tt0103359", "Type": "series", "Poster": "N/A"}
  ],
  "totalResults": "34",
  "Response": "True"
}`

const matrixDetail = `{
  "Title": "The Matrix", "Year": "1999", "Rated": "R", "Released": "31 Mar 1999",
  "Runtime": "136 min", "Genre": "Action, Sci-Fi", "Director": "Lana Wachowski, Lilly Wachowski",
  "Writer": "Lilly Wachowski, Lana Wachowski", "Actors": "Keanu Reeves, Laurence Fishburne",
  "Plot": "A computer hacker learns about the true nature of reality.", "Language": "English",
  "Country": "United States", "Awards": "Won 4 Oscars", "Poster": "https://example.com/m.jpg",
  "Ratings": [{"Source": "Internet Movie Database", "Value": "8.7/10"}],
  "Metascore": "73", "imdbRating": "8.7", "imdbVotes": "2,000,000", "imdbID": "tt0133093",
  "Type": "movie", "DVD": "N/A", "BoxOffice": "$172,076,928", "Production": "N/A", "Website": "N/A",
  "Response": "True"
}`

// recordingUpstream captures every query it receives
type recordingUpstream struct {
	mu      sync.Mutex
	queries []url.Values
	status  int
	body    string
}

func (u *recordingUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.queries = append(u.queries, r.URL.Query())
	status, body := u.status, u.body
	u.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func (u *recordingUpstream) last() url.Values {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.queries[len(u.queries)-1]
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.Config{OMDbBaseURL: baseURL, OMDbAPIKey: "test-key"}
	client, err := NewClient(cfg, metrics.Discard(), utils.DiscardLogger())
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(&config.Config{OMDbBaseURL: "http://example.com"}, metrics.Discard(), utils.DiscardLogger())
	assert.Error(t, err)
}

func TestSearchBuildsOutboundQuery(t *testing.T) {
	upstream := &recordingUpstream{body: batmanPage}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	page, err := client.Search(context.Background(), SearchQuery{Term: "batman", Page: 1, PageSize: 10})
	require.NoError(t, err)

	q := upstream.last()
	assert.Equal(t, "batman", q.Get("s"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "test-key", q.Get("apikey"))
	assert.NotContains(t, q, "pageSize", "client-only parameters must be stripped")
	assert.NotContains(t, q, "y", "unset year must be omitted, not sent empty")
	assert.NotContains(t, q, "type", "unset type must be omitted, not sent empty")

	require.Len(t, page.Items, 2)
	assert.Equal(t, 34, page.TotalResults)
	assert.True(t, page.ResponseOK)
	assert.Equal(t, "Batman Begins", page.Items[0].Title)
	assert.Equal(t, models.MediaTypeSeries, page.Items[1].Type)
	assert.Equal(t, "N/A", page.Items[1].Poster)
	assert.False(t, page.Items[1].HasPoster())
}

func TestSearchSendsFilters(t *testing.T) {
	upstream := &recordingUpstream{body: batmanPage}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Search(context.Background(), SearchQuery{
		Term: "batman", Year: "2005", Type: models.MediaTypeMovie, Page: 2, PageSize: 20,
	})
	require.NoError(t, err)

	q := upstream.last()
	assert.Equal(t, "2005", q.Get("y"))
	assert.Equal(t, "movie", q.Get("type"))
	assert.Equal(t, "2", q.Get("page"))
}

func TestFetchDoesNotMutateCallerParams(t *testing.T) {
	upstream := &recordingUpstream{body: batmanPage}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	params := SearchQuery{Term: "batman", Page: 1, PageSize: 10}.Params()
	_, err := client.Fetch(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "10", params.Get("pageSize"))
	assert.NotContains(t, params, "apikey")
}

func TestFetchHTTPError(t *testing.T) {
	upstream := &recordingUpstream{status: http.StatusServiceUnavailable, body: "down"}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Search(context.Background(), SearchQuery{Term: "batman", Page: 1})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "HTTP error! status: 503", apiErr.Message)
}

func TestFetchAPIError(t *testing.T) {
	upstream := &recordingUpstream{body: `{"Response":"False","Error":"Movie not found!"}`}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Detail(context.Background(), DetailQuery{ID: "tt0000000"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindAPI, apiErr.Kind)
	assert.Equal(t, "Movie not found!", apiErr.Message)
	assert.Zero(t, apiErr.StatusCode)
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := newTestClient(t, baseURL)
	_, err := client.Search(context.Background(), SearchQuery{Term: "batman", Page: 1})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.NotContains(t, apiErr.Message, "test-key", "transport messages must not leak the api key")
}

func TestFetchMalformedBody(t *testing.T) {
	upstream := &recordingUpstream{body: `<html>`}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Search(context.Background(), SearchQuery{Term: "batman", Page: 1})

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindAPI, apiErr.Kind)
}

func TestDetailMapsNotAvailableToNil(t *testing.T) {
	upstream := &recordingUpstream{body: matrixDetail}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	detail, err := client.Detail(context.Background(), DetailQuery{ID: "tt0133093", Plot: models.PlotFull})
	require.NoError(t, err)

	q := upstream.last()
	assert.Equal(t, "tt0133093", q.Get("i"))
	assert.Equal(t, "full", q.Get("plot"))

	assert.Equal(t, "The Matrix", detail.Title)
	require.NotNil(t, detail.Rated)
	assert.Equal(t, "R", *detail.Rated)
	assert.Nil(t, detail.DVD)
	assert.Nil(t, detail.Production)
	assert.Nil(t, detail.Website)
	require.NotNil(t, detail.BoxOffice)
	require.Len(t, detail.Ratings, 1)
	assert.Equal(t, "8.7/10", detail.Ratings[0].Value)
}

func TestFetchRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	upstream := &recordingUpstream{status: http.StatusInternalServerError}
	server := httptest.NewServer(upstream)
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Fetch(context.Background(), url.Values{"s": {"batman"}})
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "omdb.Fetch", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client := newTestClient(t, server.URL)
	assert.NoError(t, client.Ping(context.Background()))

	server.Close()
	assert.Error(t, client.Ping(context.Background()))
}
