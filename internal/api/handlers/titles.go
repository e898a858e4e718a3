package handlers

import (
	"net/http"
	"strings"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TitleHandler serves single title lookups
type TitleHandler struct {
	searchCtrl *controllers.SearchController
	logger     *logrus.Logger
}

// NewTitleHandler creates a new title handler
func NewTitleHandler(searchCtrl *controllers.SearchController, logger *logrus.Logger) *TitleHandler {
	return &TitleHandler{
		searchCtrl: searchCtrl,
		logger:     logger,
	}
}

// ByID handles GET /api/titles/{id}
func (h *TitleHandler) ByID(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, controllers.DetailRequest{ID: chi.URLParam(r, "id")})
}

// ByTitle handles GET /api/titles?t=...
func (h *TitleHandler) ByTitle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("t")
	if strings.TrimSpace(title) == "" {
		writeError(w, http.StatusBadRequest, "query parameter t is required", h.logger)
		return
	}
	h.serve(w, r, controllers.DetailRequest{Title: title})
}

func (h *TitleHandler) serve(w http.ResponseWriter, r *http.Request, req controllers.DetailRequest) {
	q := r.URL.Query()

	req.Year = q.Get("y")
	req.Plot = models.PlotLength(strings.ToLower(q.Get("plot")))
	if req.Plot != "" && req.Plot != models.PlotShort && req.Plot != models.PlotFull {
		writeError(w, http.StatusBadRequest, "plot must be short or full", h.logger)
		return
	}
	req.Type = models.MediaType(strings.ToLower(q.Get("type")))
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "unknown type", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.searchCtrl.Detail(r.Context(), req, wantsWait(r)), h.logger)
}
