package auth_test

import (
	"net/http/httptest"
	"testing"

	"m3u-guardian/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(auth.Config{ApiKey: key, Public: []string{"/health"}}))
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/health", ok)
	app.Get("/status", ok)
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		path   string
		header string
		want   int
	}{
		{"disabled", "", "/status", "", 200},
		{"missing key", "secret", "/status", "", 401},
		{"wrong key", "secret", "/status", "nope", 401},
		{"valid header", "secret", "/status", "secret", 200},
		{"valid query", "secret", "/status?api_key=secret", "", 200},
		{"public path", "secret", "/health", "", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := setupApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
