package rayid_test

import (
	"net/http/httptest"
	"testing"

	"m3u-guardian/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(rayid.New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(rayid.LocalsKey).(string))
	})

	t.Run("generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		_, err = uuid.Parse(resp.Header.Get(rayid.Header))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.Header, "abc-123")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "abc-123", resp.Header.Get(rayid.Header))
	})
}
