package status

import (
	"strings"
	"time"

	"m3u-guardian/core/logger"
	"m3u-guardian/core/playlist"
	"m3u-guardian/feature/publish"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the status routes.
type Handler struct {
	service *Service
	now     func() time.Time
}

// NewHandler creates a handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)
	app.Get("/status", h.HandleStatus)
	app.Get("/playlist.m3u", h.HandlePlaylist)
	app.Get("/playlist/entries", h.HandleEntries)
}

// HandleHealth reports that the process is up.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleStatus returns the session snapshot.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	st := h.service.Session()

	resp := fiber.Map{"session": st}
	if !st.StartedAt.IsZero() {
		end := h.now()
		if !st.StoppedAt.IsZero() {
			end = st.StoppedAt
		}
		resp["uptime"] = strings.TrimSpace(humanize.RelTime(st.StartedAt, end, "", ""))
	}
	return c.JSON(resp)
}

// HandlePlaylist serves the persisted playlist file.
func (h *Handler) HandlePlaylist(c *fiber.Ctx) error {
	doc, ok := h.readPlaylist(c)
	if !ok {
		return nil
	}
	c.Set(fiber.HeaderContentType, publish.PlaylistContentType)
	return c.Send(doc.Bytes())
}

// HandleEntries returns the persisted playlist as entries.
func (h *Handler) HandleEntries(c *fiber.Ctx) error {
	doc, ok := h.readPlaylist(c)
	if !ok {
		return nil
	}

	entries := doc.Entries()
	dead := 0
	for _, e := range entries {
		if !e.Alive {
			dead++
		}
	}
	return c.JSON(fiber.Map{
		"count":       len(entries),
		"dead":        dead,
		"placeholder": doc.IsPlaceholder(),
		"entries":     entries,
	})
}

// readPlaylist writes an error response and returns ok=false when the
// document cannot be served.
func (h *Handler) readPlaylist(c *fiber.Ctx) (playlist.Document, bool) {
	doc, found, err := h.service.Playlist()
	if err != nil {
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Failed to read playlist", zap.Error(err))
		_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		return playlist.Document{}, false
	}
	if !found {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "playlist not written yet"})
		return playlist.Document{}, false
	}
	return doc, true
}
