package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberMiddlewareLogsAndTags(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(FiberMiddleware(NewWithWriter(&buf, "debug", "json")))
	app.Get("/ok", func(c *fiber.Ctx) error {
		FromContext(c.UserContext()).Info().Msg("inside handler")
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nope")
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var inside, okDone, missDone map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inside))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &okDone))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &missDone))

	assert.Equal(t, "abc-123", inside["request_id"])
	assert.Equal(t, "info", okDone["level"])
	assert.EqualValues(t, 200, okDone["status"])
	assert.Equal(t, "warn", missDone["level"])
	assert.EqualValues(t, 404, missDone["status"])
	assert.Equal(t, "/missing", missDone["path"])
}

func TestNewWithWriterLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn", "json")
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
