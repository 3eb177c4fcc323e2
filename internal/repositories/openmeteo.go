package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"seasonal-anomaly/internal/models"
	"seasonal-anomaly/pkg/logger"
)

const (
	OpenMeteoName         = "open-meteo"
	OpenMeteoBaseURL      = "https://api.open-meteo.com"
	OpenMeteoGeocodingURL = "https://geocoding-api.open-meteo.com"

	openMeteoTimeLayout = "2006-01-02T15:04"
)

// OpenMeteoRepository reads current temperatures from Open-Meteo. It needs
// no API key.
type OpenMeteoRepository struct {
	baseURL      string
	geocodingURL string
	httpClient   HTTPClient
	l            *logger.Logger
}

func NewOpenMeteoRepository(l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	return &OpenMeteoRepository{
		baseURL:      OpenMeteoBaseURL,
		geocodingURL: OpenMeteoGeocodingURL,
		httpClient:   httpClient,
		l:            l,
	}
}

// WithBaseURLs overrides the forecast and geocoding hosts; empty values
// keep the defaults.
func (o *OpenMeteoRepository) WithBaseURLs(baseURL, geocodingURL string) *OpenMeteoRepository {
	if baseURL != "" {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
	if geocodingURL != "" {
		o.geocodingURL = strings.TrimRight(geocodingURL, "/")
	}
	return o
}

func (o *OpenMeteoRepository) Name() string {
	return OpenMeteoName
}

type openMeteoGeocodingResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		CountryCode string  `json:"country_code"`
	} `json:"results"`
}

type openMeteoCurrentResponse struct {
	Current struct {
		Time          string   `json:"time"`
		Temperature2m *float64 `json:"temperature_2m"`
	} `json:"current"`
}

type openMeteoErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func (o *OpenMeteoRepository) Locate(ctx context.Context, city string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	params.Set("format", "json")

	o.l.Debug("making open-meteo geocoding request", map[string]any{"city": city})

	var response openMeteoGeocodingResponse
	if err := getJSON(ctx, o.httpClient, o.Name(), "geocode", o.geocodingURL+"/v1/search?"+params.Encode(), &response, describeOpenMeteoError); err != nil {
		return models.Coordinates{}, fmt.Errorf("open-meteo geocoding: %w", err)
	}

	if len(response.Results) == 0 {
		return models.Coordinates{}, fmt.Errorf("open-meteo geocoding %q: %w", city, ErrLocationNotFound)
	}

	r := response.Results[0]
	return models.Coordinates{
		Name:    r.Name,
		Country: r.CountryCode,
		Lat:     r.Latitude,
		Lon:     r.Longitude,
	}, nil
}

func (o *OpenMeteoRepository) CurrentTemperature(ctx context.Context, coords models.Coordinates) (models.CurrentReading, error) {
	reading := models.CurrentReading{
		RepositoryName: o.Name(),
		Location:       coords,
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	params.Set("current", "temperature_2m")
	params.Set("timezone", "GMT")

	o.l.Info("making open-meteo current weather request", map[string]any{
		"params": coords.RequestParams(),
	})

	var response openMeteoCurrentResponse
	if err := getJSON(ctx, o.httpClient, o.Name(), "current", o.baseURL+"/v1/forecast?"+params.Encode(), &response, describeOpenMeteoError); err != nil {
		return reading, fmt.Errorf("open-meteo current weather: %w", err)
	}

	if response.Current.Temperature2m == nil {
		return reading, fmt.Errorf("open-meteo current weather: no temperature in response")
	}
	reading.Temperature = *response.Current.Temperature2m

	observed, err := time.Parse(openMeteoTimeLayout, response.Current.Time)
	if err != nil {
		observed = time.Now().UTC()
	}
	reading.ObservedAt = observed

	return reading, nil
}

func describeOpenMeteoError(body []byte) string {
	var errorResp openMeteoErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error {
		return errorResp.Reason
	}
	return ""
}
