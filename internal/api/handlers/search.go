package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/amaumene/cinesearch/internal/search"
	"github.com/sirupsen/logrus"
)

// Intent types accepted by POST /api/intents
const (
	IntentSetSearchTerm  = "setSearchTerm"
	IntentSearchInput    = "searchInput"
	IntentSetYear        = "setYear"
	IntentSetType        = "setType"
	IntentSetRowsPerPage = "setRowsPerPage"
	IntentSetPage        = "setPage"
	IntentSetViewMode    = "setViewMode"
	IntentSetAllFilters  = "setAllFilters"
)

// IntentRequest is one user intent from the presentation layer
type IntentRequest struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// SearchHandler serves the filter state and search results
type SearchHandler struct {
	searchCtrl *controllers.SearchController
	logger     *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchCtrl *controllers.SearchController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searchCtrl: searchCtrl,
		logger:     logger,
	}
}

// Filters handles GET /api/filters
func (h *SearchHandler) Filters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.searchCtrl.Filters(), h.logger)
}

// Results handles GET /api/search
func (h *SearchHandler) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.searchCtrl.Results(r.Context(), wantsWait(r)), h.logger)
}

// Intents handles POST /api/intents
func (h *SearchHandler) Intents(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	h.logger.WithField("intent", req.Type).Debug("Intent received")

	if req.Type == IntentSearchInput {
		raw, err := decodeText(req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		h.searchCtrl.Input(raw)
		writeJSON(w, http.StatusAccepted, h.searchCtrl.Filters(), h.logger)
		return
	}

	if req.Type == IntentSetPage {
		filters, err := h.setPage(r, req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), h.logger)
			return
		}
		writeJSON(w, http.StatusOK, filters, h.logger)
		return
	}

	intent, err := parseIntent(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.searchCtrl.Dispatch(intent), h.logger)
}

// setPage accepts a page number or "first"/"last"
func (h *SearchHandler) setPage(r *http.Request, value json.RawMessage) (search.Filters, error) {
	text, err := decodeText(value)
	if err != nil {
		return search.Filters{}, err
	}

	switch strings.ToLower(text) {
	case "first":
		return h.searchCtrl.FirstPage(), nil
	case "last":
		return h.searchCtrl.LastPage(r.Context()), nil
	}

	page, err := strconv.Atoi(text)
	if err != nil {
		return search.Filters{}, fmt.Errorf("page must be a number, \"first\" or \"last\"")
	}
	return h.searchCtrl.Dispatch(search.SetPage{Page: page}), nil
}

// parseIntent maps a request onto a store intent
func parseIntent(req IntentRequest) (search.Intent, error) {
	switch req.Type {
	case IntentSetSearchTerm:
		term, err := decodeText(req.Value)
		if err != nil {
			return nil, err
		}
		return search.SetSearchTerm{Term: term}, nil

	case IntentSetYear:
		year, err := decodeText(req.Value)
		if err != nil {
			return nil, err
		}
		if year != "" {
			if _, err := strconv.Atoi(year); err != nil {
				return nil, fmt.Errorf("year must be numeric, got %q", year)
			}
		}
		return search.SetYear{Year: year}, nil

	case IntentSetType:
		text, err := decodeText(req.Value)
		if err != nil {
			return nil, err
		}
		t := models.MediaType(strings.ToLower(text))
		if !t.Valid() {
			return nil, fmt.Errorf("unknown type %q", text)
		}
		return search.SetType{Type: t}, nil

	case IntentSetRowsPerPage:
		text, err := decodeText(req.Value)
		if err != nil {
			return nil, err
		}
		rows, err := strconv.Atoi(text)
		if err != nil || rows < 1 {
			return nil, fmt.Errorf("rows per page must be a positive number")
		}
		return search.SetRowsPerPage{Rows: rows}, nil

	case IntentSetViewMode:
		text, err := decodeText(req.Value)
		if err != nil {
			return nil, err
		}
		mode := models.ViewMode(strings.ToLower(text))
		if !mode.Valid() {
			return nil, fmt.Errorf("unknown view mode %q", text)
		}
		return search.SetViewMode{Mode: mode}, nil

	case IntentSetAllFilters:
		var partial search.Partial
		if err := json.Unmarshal(req.Value, &partial); err != nil {
			return nil, fmt.Errorf("invalid filters: %w", err)
		}
		return search.SetAllFilters{Filters: partial}, nil
	}

	return nil, fmt.Errorf("unknown intent %q", req.Type)
}

// decodeText accepts a JSON string, number or null
func decodeText(value json.RawMessage) (string, error) {
	if len(value) == 0 || string(value) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(value, &n); err == nil {
		return n.String(), nil
	}

	return "", fmt.Errorf("value must be a string or a number")
}

// FocusRequest reports whether the presentation layer is visible
type FocusRequest struct {
	Focused bool `json:"focused"`
}

// Focus handles POST /api/focus
func (h *SearchHandler) Focus(w http.ResponseWriter, r *http.Request) {
	var req FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", h.logger)
		return
	}

	h.searchCtrl.SetFocused(req.Focused)
	w.WriteHeader(http.StatusNoContent)
}
