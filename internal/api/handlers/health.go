package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Connectivity reports whether the upstream answered its last probe
type Connectivity interface {
	Online() bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	connectivity Connectivity
	logger       *logrus.Logger
}

// NewHealthHandler creates a new health handler. connectivity may be nil.
func NewHealthHandler(connectivity Connectivity, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{connectivity: connectivity, logger: logger}
}

// ServeHTTP handles the health check endpoint
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}

	if h.connectivity != nil {
		response["upstream"] = "online"
		if !h.connectivity.Online() {
			response["upstream"] = "offline"
		}
	}

	writeJSON(w, http.StatusOK, response, h.logger)
}
