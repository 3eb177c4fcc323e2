package http

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"seasonal-anomaly/internal/anomaly"
	"seasonal-anomaly/internal/dataset"
	"seasonal-anomaly/internal/services/analysis"
)

const formFile = "file"

// analysisForm holds the raw multipart form values of an analysis request
type analysisForm struct {
	City               string `validate:"required,max=200"`
	Threshold          string `validate:"omitempty,numeric"`
	CurrentTemperature string `validate:"omitempty,numeric"`
	Live               string `validate:"omitempty,boolean"`
}

func (f analysisForm) request() (analysis.Request, error) {
	req := analysis.Request{City: f.City}

	var err error
	if req.Threshold, err = parseOptionalFloat("threshold", f.Threshold); err != nil {
		return req, err
	}
	if req.CurrentTemperature, err = parseOptionalFloat("current_temperature", f.CurrentTemperature); err != nil {
		return req, err
	}
	req.Live, _ = strconv.ParseBool(f.Live)

	return req, nil
}

// parseOptionalFloat returns nil for an empty value and rejects values
// that do not fit a finite float64.
func parseOptionalFloat(field, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("%w: %s must be a finite number", errInvalidForm, field)
	}
	return &v, nil
}

// ListCities godoc
// @Summary List cities of a dataset
// @Description Parses an uploaded CSV with city, season, temperature and timestamp columns and returns the distinct cities
// @Tags Datasets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Historical temperatures CSV"
// @Success 200 {object} CitiesResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - missing or unreadable file"
// @Failure 422 {object} ErrorResponse "Required columns are missing"
// @Router /api/v1/datasets/cities [post]
func (r *routes) handleListCities(c *fiber.Ctx) error {
	ds, err := r.readDataset(c)
	if err != nil {
		return r.fail(c, err)
	}

	return c.JSON(CitiesResponse{
		Cities:  r.service.Cities(ds),
		Rows:    len(ds.Records),
		Dropped: ds.Dropped,
	})
}

// Analyze godoc
// @Summary Analyze a city
// @Description Labels every historical record of the city against its (city, season) baseline and compares the current temperature with the baseline of the current month
// @Tags Analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Historical temperatures CSV"
// @Param city formData string true "City to analyze" example(Berlin)
// @Param threshold formData number false "Historical std multiplier (default from configuration)" example(2.0)
// @Param current_temperature formData number false "Current temperature in °C; skips the weather providers" example(24.0)
// @Param live formData boolean false "Fetch the current temperature from the configured providers"
// @Success 200 {object} AnalysisResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 404 {object} ErrorResponse "City not present in the dataset"
// @Failure 422 {object} ErrorResponse "Required columns are missing"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/analysis [post]
func (r *routes) handleAnalyze(c *fiber.Ctx) error {
	form := analysisForm{
		City:               c.FormValue("city"),
		Threshold:          c.FormValue("threshold"),
		CurrentTemperature: c.FormValue("current_temperature"),
		Live:               c.FormValue("live"),
	}
	if err := r.validate.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	req, err := form.request()
	if err != nil {
		return r.fail(c, err)
	}

	ds, err := r.readDataset(c)
	if err != nil {
		return r.fail(c, err)
	}

	if ds.Dropped > 0 {
		r.l.Warning("dropped rows with unparseable timestamps", map[string]any{
			"dropped": ds.Dropped,
			"rows":    len(ds.Records),
		})
	}

	report, err := r.service.Analyze(c.UserContext(), ds, req)
	if err != nil {
		return r.fail(c, err)
	}

	return c.JSON(newAnalysisResponse(report))
}

// Classify godoc
// @Summary Classify a value
// @Description Applies the deviation rule to a single value. A null std is never anomalous. The policy selects the configured multiplier when threshold is omitted.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body ClassifyRequest true "Value and baseline"
// @Success 200 {object} ClassifyResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Router /api/v1/classify [post]
func (r *routes) handleClassify(c *fiber.Ctx) error {
	var req ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid JSON body"})
	}
	if err := r.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if req.Std.Defined && req.Std.Value < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "std must not be negative"})
	}

	thresholds := r.service.Thresholds()
	policy := req.Policy
	if policy == "" {
		policy = "historical"
	}

	var threshold float64
	switch {
	case req.Threshold != nil:
		threshold = *req.Threshold
	case policy == "live":
		threshold = thresholds.Live
	default:
		threshold = thresholds.Historical
	}

	var isAnomaly bool
	if policy == "live" {
		isAnomaly = anomaly.ClassifyLive(*req.Value, *req.Mean, req.Std, threshold)
	} else {
		isAnomaly = anomaly.Classify(*req.Value, *req.Mean, req.Std, threshold)
	}

	return c.JSON(ClassifyResponse{
		Anomaly:   isAnomaly,
		Threshold: threshold,
		Policy:    policy,
	})
}

func (r *routes) readDataset(c *fiber.Ctx) (*dataset.Dataset, error) {
	fh, err := c.FormFile(formFile)
	if err != nil {
		return nil, errMissingFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := dataset.Parse(f)
	if err != nil {
		return nil, err
	}

	r.l.Debug("parsed dataset", map[string]any{
		"file":    fh.Filename,
		"rows":    len(ds.Records),
		"dropped": ds.Dropped,
	})

	return ds, nil
}

var (
	errMissingFile = errors.New("missing required form file: file")
	errInvalidForm = errors.New("invalid form value")
)

func (r *routes) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Failed to analyze dataset"

	switch {
	case errors.Is(err, errMissingFile),
		errors.Is(err, errInvalidForm),
		errors.Is(err, analysis.ErrInvalidThreshold):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, dataset.ErrMissingColumns):
		status, msg = fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, dataset.ErrEmptyFile), errors.Is(err, dataset.ErrMalformed):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, analysis.ErrUnknownCity):
		status, msg = fiber.StatusNotFound, err.Error()
	default:
		r.l.Error(err, map[string]any{"path": c.Path()})
	}

	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
