package hosting

import (
	"github.com/contre95/structwatch/src/features/documents"
	"github.com/contre95/structwatch/src/features/monitor"
	"github.com/gofiber/fiber/v2"
)

// Handler serves the status endpoints.
type Handler struct {
	monitor   *monitor.Monitor
	documents *documents.Set
}

// NewHandler creates a new status handler.
func NewHandler(mon *monitor.Monitor, docs *documents.Set) *Handler {
	return &Handler{
		monitor:   mon,
		documents: docs,
	}
}

// GetWatches returns the registry snapshot.
func (h *Handler) GetWatches(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"running": h.monitor.Running(),
		"watches": h.monitor.Registry().Snapshot(),
	})
}

// GetDocuments lists the loaded documents.
func (h *Handler) GetDocuments(c *fiber.Ctx) error {
	names := h.documents.Names()
	out := make([]fiber.Map, 0, len(names))
	for _, name := range names {
		doc, ok := h.documents.Get(name)
		if !ok {
			continue
		}
		out = append(out, fiber.Map{"name": name, "path": doc.Path()})
	}
	return c.JSON(out)
}

// GetDocument returns the current value of a document.
func (h *Handler) GetDocument(c *fiber.Ctx) error {
	doc, ok := h.documents.Get(c.Params("name"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "document not found")
	}
	return c.JSON(doc.Snapshot())
}
