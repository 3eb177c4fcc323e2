package repositories

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seasonal-anomaly/config"
	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/pkg/logger"
)

func newTestOpenWeather(t *testing.T, handler http.HandlerFunc) *OpenWeatherRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	repo, err := NewOpenWeatherRepository("test-key", logger.NewZapLogger("test-app", io.Discard), server.Client())
	require.NoError(t, err)

	return repo.WithBaseURL(server.URL)
}

func TestNewOpenWeatherRepository_EmptyKey(t *testing.T) {
	_, err := NewOpenWeatherRepository("  ", logger.NewZapLogger("test-app", io.Discard), http.DefaultClient)
	assert.ErrorIs(t, err, ErrEmptyAPIKey)
}

func TestOpenWeatherRepository_Locate(t *testing.T) {
	repo := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "Moscow", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Write([]byte(`[{"name":"Moscow","lat":55.75,"lon":37.61,"country":"RU"}]`))
	})

	coords, err := repo.Locate(context.Background(), "Moscow")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Name: "Moscow", Country: "RU", Lat: 55.75, Lon: 37.61}, coords)
}

func TestOpenWeatherRepository_Locate_NotFound(t *testing.T) {
	repo := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := repo.Locate(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ErrLocationNotFound))
}

func TestOpenWeatherRepository_CurrentTemperature(t *testing.T) {
	repo := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "55.75", r.URL.Query().Get("lat"))
		w.Write([]byte(`{"dt":1718366400,"main":{"temp":18.6,"humidity":40}}`))
	})

	reading, err := repo.CurrentTemperature(context.Background(), models.Coordinates{Name: "Moscow", Lat: 55.75, Lon: 37.61})
	require.NoError(t, err)
	assert.Equal(t, "openweathermap", reading.RepositoryName)
	assert.Equal(t, 18.6, reading.Temperature)
	assert.Equal(t, time.Unix(1718366400, 0).UTC(), reading.ObservedAt)
}

func TestOpenWeatherRepository_Unauthorized(t *testing.T) {
	repo := newTestOpenWeather(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`))
	})

	_, err := repo.CurrentTemperature(context.Background(), models.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestInitTemperatureRepositories(t *testing.T) {
	cfg := &config.Config{
		Weather: config.WeatherConfig{
			APIs: []config.WeatherAPIConfig{
				{Name: "openweathermap"},
				{Name: "open-meteo", Timeout: 3},
				{Name: "openweathermap", APIKey: "key"},
				{Name: "unknown"},
			},
		},
	}

	repos := InitTemperatureRepositories(cfg, logger.NewZapLogger("test-app", io.Discard))
	require.Len(t, repos, 2)
	assert.Equal(t, "open-meteo", repos[0].Name())
	assert.Equal(t, "openweathermap", repos[1].Name())
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, defaultTimeout, timeout(0))
	assert.Equal(t, 3*time.Second, timeout(3))
}
