package config

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// GetConfig renders the current configuration as YAML, or as JSON when the
// client asks for it.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	if c.Accepts("application/yaml", fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(h.configManager.GetJSON())
	}
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.SendString(h.configManager.GetYAML())
}

// SaveConfig writes the current configuration back to its file.
func (h *Handler) SaveConfig(c *fiber.Ctx) error {
	if err := h.configManager.Save(h.configManager.Path()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"saved": true, "path": h.configManager.Path()})
}

// ReloadConfig re-reads the configuration file on demand.
func (h *Handler) ReloadConfig(c *fiber.Ctx) error {
	slog.Info("Configuration reload requested")
	if err := h.configManager.Reload(); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(fiber.Map{"reloaded": true})
}
