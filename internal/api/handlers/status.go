package handlers

import (
	"net/http"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/query"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	cache        *query.Cache
	searchCtrl   *controllers.SearchController
	connectivity Connectivity
	logger       *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(cache *query.Cache, searchCtrl *controllers.SearchController, connectivity Connectivity, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		cache:        cache,
		searchCtrl:   searchCtrl,
		connectivity: connectivity,
		logger:       logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	CacheEntries    int            `json:"cache_entries"`
	ObservedQueries int            `json:"observed_queries"`
	Focused         bool           `json:"focused"`
	UpstreamOnline  bool           `json:"upstream_online"`
	Filters         search.Filters `json:"filters"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		CacheEntries:    h.cache.Len(),
		ObservedQueries: len(h.cache.Referenced()),
		Focused:         h.cache.Focused(),
		UpstreamOnline:  true,
		Filters:         h.searchCtrl.Filters(),
	}
	if h.connectivity != nil {
		response.UpstreamOnline = h.connectivity.Online()
	}

	writeJSON(w, http.StatusOK, response, h.logger)
}
