package repositories

import (
	"context"
	"errors"
	"net/http"
	"time"

	"seasonal-anomaly/config"
	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/pkg/logger"
)

const defaultTimeout = 10 * time.Second

var ErrLocationNotFound = errors.New("location not found")

// HTTPClient is the subset of *http.Client used by the repositories.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TemperatureRepository resolves a city and reads its current temperature.
type TemperatureRepository interface {
	Name() string
	Locate(ctx context.Context, city string) (models.Coordinates, error)
	CurrentTemperature(ctx context.Context, coords models.Coordinates) (models.CurrentReading, error)
}

// InitTemperatureRepositories builds the configured repositories in
// configuration order. Entries that cannot be built are logged and skipped.
func InitTemperatureRepositories(cfg *config.Config, l *logger.Logger) []TemperatureRepository {
	var repos []TemperatureRepository
	for _, api := range cfg.GetWeatherAPIs() {
		client := &http.Client{Timeout: timeout(api.Timeout)}

		switch api.Name {
		case OpenMeteoName:
			repos = append(repos, NewOpenMeteoRepository(l, client).
				WithBaseURLs(api.BaseURL, api.GeocodingURL))
		case OpenWeatherName:
			repo, err := NewOpenWeatherRepository(api.APIKey, l, client)
			if err != nil {
				l.Warning("skipping weather provider", map[string]any{"repo": api.Name, "err": err.Error()})
				continue
			}
			repos = append(repos, repo.WithBaseURL(api.BaseURL))
		default:
			l.Warning("unknown weather provider", map[string]any{"repo": api.Name})
		}
	}

	return repos
}

func timeout(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultTimeout
	}
	return time.Duration(seconds) * time.Second
}
