package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"seasonal-anomaly/internal/anomaly"
)

const (
	ColumnCity        = "city"
	ColumnSeason      = "season"
	ColumnTemperature = "temperature"
	ColumnTimestamp   = "timestamp"
)

var requiredColumns = []string{ColumnCity, ColumnSeason, ColumnTemperature, ColumnTimestamp}

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyFile      = errors.New("file has no header row")
	ErrMalformed      = errors.New("malformed CSV")
)

// timestampLayouts are tried in order; the first match wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"02.01.2006",
}

// Dataset is a parsed historical temperature table.
type Dataset struct {
	Records []anomaly.Record
	// Dropped counts rows discarded for an unparseable timestamp.
	Dropped int
}

// Parse reads a CSV table with a header row. The city, season, temperature
// and timestamp columns are required; other columns are ignored.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", ErrMalformed, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Records: []anomaly.Record{}}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read line %d: %w", ErrMalformed, line, err)
		}

		ts, ok := parseTimestamp(field(row, index[ColumnTimestamp]))
		if !ok {
			ds.Dropped++
			continue
		}

		ds.Records = append(ds.Records, anomaly.Record{
			Location:  field(row, index[ColumnCity]),
			Season:    field(row, index[ColumnSeason]),
			Value:     parseTemperature(field(row, index[ColumnTemperature])),
			Timestamp: ts,
		})
	}

	return ds, nil
}

// Cities returns the distinct locations in sorted order.
func (d *Dataset) Cities() []string {
	seen := make(map[string]struct{})
	cities := []string{}
	for _, r := range d.Records {
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		cities = append(cities, r.Location)
	}
	slices.Sort(cities)

	return cities
}

// ForCity returns the records of a single location in input order.
func (d *Dataset) ForCity(city string) []anomaly.Record {
	out := []anomaly.Record{}
	for _, r := range d.Records {
		if r.Location == city {
			out = append(out, r)
		}
	}
	return out
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return index, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTemperature returns NaN for empty or non-numeric cells.
func parseTemperature(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
