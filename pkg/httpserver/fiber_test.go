package httpserver

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-anomaly/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test-app"},
		Server: config.ServerConfig{
			BodyLimitMB:  1,
			ReadTimeout:  5,
			WriteTimeout: 5,
			IdleTimeout:  5,
		},
	}
}

func TestInitFiberServer_HealthEndpoints(t *testing.T) {
	app := InitFiberServer(testConfig())

	for _, path := range []string{"/manage/health", "/manage/ready"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, path)
	}
}

func TestInitFiberServer_BodyLimit(t *testing.T) {
	app := InitFiberServer(testConfig())
	assert.Equal(t, 1024*1024, app.Config().BodyLimit)
}

func TestErrorHandler_NotFound(t *testing.T) {
	app := InitFiberServer(testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotEmpty(t, payload["error"])
}

func TestErrorHandler_Panic(t *testing.T) {
	app := InitFiberServer(testConfig())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
