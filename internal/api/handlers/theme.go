package handlers

import (
	"net/http"

	"github.com/amaumene/cinesearch/internal/controllers"
	"github.com/amaumene/cinesearch/internal/models"
	"github.com/sirupsen/logrus"
)

// ThemeResponse carries the current theme
type ThemeResponse struct {
	Theme models.ThemeMode `json:"theme"`
}

// ThemeHandler serves the theme preference
type ThemeHandler struct {
	themeCtrl *controllers.ThemeController
	logger    *logrus.Logger
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(themeCtrl *controllers.ThemeController, logger *logrus.Logger) *ThemeHandler {
	return &ThemeHandler{
		themeCtrl: themeCtrl,
		logger:    logger,
	}
}

// Get handles GET /api/theme
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ThemeResponse{Theme: h.themeCtrl.Mode()}, h.logger)
}

// Toggle handles POST /api/theme/toggle
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	mode, err := h.themeCtrl.Toggle()
	if err != nil {
		h.logger.WithError(err).Error("Failed to toggle theme")
		writeError(w, http.StatusInternalServerError, "failed to save theme", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ThemeResponse{Theme: mode}, h.logger)
}
