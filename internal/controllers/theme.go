package controllers

import (
	"fmt"
	"sync"

	"github.com/amaumene/cinesearch/internal/models"
	"github.com/sirupsen/logrus"
)

// ThemeController owns the persisted light/dark preference
type ThemeController struct {
	db     *models.Database
	logger *logrus.Logger

	mu   sync.Mutex
	mode models.ThemeMode
}

// NewThemeController creates a theme controller seeded from the database
func NewThemeController(db *models.Database, logger *logrus.Logger) (*ThemeController, error) {
	mode, err := db.GetThemeMode()
	if err != nil {
		return nil, fmt.Errorf("failed to read theme preference: %w", err)
	}

	logger.WithField("theme", mode).Debug("Theme preference loaded")

	return &ThemeController{
		db:     db,
		logger: logger,
		mode:   mode,
	}, nil
}

// Mode returns the current theme
func (c *ThemeController) Mode() models.ThemeMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Toggle switches the theme and persists the new value
func (c *ThemeController) Toggle() (models.ThemeMode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.mode.Toggled()
	if err := c.db.SaveThemeMode(next); err != nil {
		return c.mode, fmt.Errorf("failed to save theme preference: %w", err)
	}
	c.mode = next

	c.logger.WithField("theme", next).Info("Theme toggled")
	return next, nil
}
