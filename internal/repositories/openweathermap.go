package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/pkg/logger"
)

const (
	OpenWeatherName    = "openweathermap"
	OpenWeatherBaseURL = "https://api.openweathermap.org"
)

var ErrEmptyAPIKey = errors.New("API key cannot be empty")

// OpenWeatherRepository reads current temperatures from OpenWeatherMap.
type OpenWeatherRepository struct {
	APIKey     string
	baseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenWeatherRepository(apiKey string, l *logger.Logger, httpClient HTTPClient) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrEmptyAPIKey
	}

	return &OpenWeatherRepository{
		APIKey:     apiKey,
		baseURL:    OpenWeatherBaseURL,
		httpClient: httpClient,
		l:          l,
	}, nil
}

// WithBaseURL overrides the API host; an empty value keeps the default.
func (w *OpenWeatherRepository) WithBaseURL(baseURL string) *OpenWeatherRepository {
	if baseURL != "" {
		w.baseURL = strings.TrimRight(baseURL, "/")
	}
	return w
}

func (w *OpenWeatherRepository) Name() string {
	return OpenWeatherName
}

type openWeatherGeocodingResponse []struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type openWeatherCurrentResponse struct {
	Dt   int64 `json:"dt"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

type openWeatherErrorResponse struct {
	Message string `json:"message"`
}

func (w *OpenWeatherRepository) Locate(ctx context.Context, city string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "1")
	params.Set("appid", w.APIKey)

	w.l.Debug("making openweathermap geocoding request", map[string]any{"city": city})

	var response openWeatherGeocodingResponse
	if err := getJSON(ctx, w.httpClient, w.Name(), "geocode", w.baseURL+"/geo/1.0/direct?"+params.Encode(), &response, describeOpenWeatherError); err != nil {
		return models.Coordinates{}, fmt.Errorf("openweathermap geocoding: %w", err)
	}

	if len(response) == 0 {
		return models.Coordinates{}, fmt.Errorf("openweathermap geocoding %q: %w", city, ErrLocationNotFound)
	}

	return models.Coordinates{
		Name:    response[0].Name,
		Country: response[0].Country,
		Lat:     response[0].Lat,
		Lon:     response[0].Lon,
	}, nil
}

func (w *OpenWeatherRepository) CurrentTemperature(ctx context.Context, coords models.Coordinates) (models.CurrentReading, error) {
	reading := models.CurrentReading{
		RepositoryName: w.Name(),
		Location:       coords,
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("units", "metric")
	params.Set("appid", w.APIKey)

	w.l.Info("making openweathermap current weather request", map[string]any{
		"params": coords.RequestParams(),
	})

	var response openWeatherCurrentResponse
	if err := getJSON(ctx, w.httpClient, w.Name(), "current", w.baseURL+"/data/2.5/weather?"+params.Encode(), &response, describeOpenWeatherError); err != nil {
		return reading, fmt.Errorf("openweathermap current weather: %w", err)
	}

	if response.Main == nil {
		return reading, fmt.Errorf("openweathermap current weather: no temperature in response")
	}
	reading.Temperature = response.Main.Temp

	if response.Dt > 0 {
		reading.ObservedAt = time.Unix(response.Dt, 0).UTC()
	} else {
		reading.ObservedAt = time.Now().UTC()
	}

	return reading, nil
}

func describeOpenWeatherError(body []byte) string {
	var errorResp openWeatherErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil {
		return errorResp.Message
	}
	return ""
}
