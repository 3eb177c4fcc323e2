package anomaly

import (
	"encoding/json"
	"time"
)

// Record is a single historical temperature observation.
type Record struct {
	Location  string    `json:"city" example:"Berlin"`
	Season    string    `json:"season" example:"winter"`
	Value     float64   `json:"temperature" example:"-1.5"`
	Timestamp time.Time `json:"timestamp" example:"2010-01-01T00:00:00Z"`
}

// StdDev is a sample standard deviation. A group with fewer than two
// finite samples has no standard deviation, which is a valid state.
type StdDev struct {
	Value   float64
	Defined bool
}

// UndefinedStdDev is the zero StdDev.
var UndefinedStdDev = StdDev{}

// DefinedStdDev wraps a computed standard deviation.
func DefinedStdDev(v float64) StdDev {
	return StdDev{Value: v, Defined: true}
}

// MarshalJSON encodes an undefined StdDev as null.
func (s StdDev) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null as UndefinedStdDev.
func (s *StdDev) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = UndefinedStdDev
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = DefinedStdDev(v)

	return nil
}

// GroupBaseline summarizes the finite values of one group.
type GroupBaseline[K comparable] struct {
	Key   K       `json:"key"`
	Mean  float64 `json:"mean"`
	Std   StdDev  `json:"std"`
	Count int     `json:"count"`
}

// LabeledRecord is a Record joined with its group baseline.
type LabeledRecord struct {
	Record
	BaselineMean float64 `json:"baseline_mean"`
	BaselineStd  StdDev  `json:"baseline_std"`
	IsAnomaly    bool    `json:"anomaly"`
}

// SeasonKey groups records by location and season label.
type SeasonKey struct {
	Location string `json:"city"`
	Season   string `json:"season"`
}

// MonthKey groups records by location and calendar month of the timestamp.
type MonthKey struct {
	Location string     `json:"city"`
	Month    time.Month `json:"month"`
}

func BySeason(r Record) SeasonKey {
	return SeasonKey{Location: r.Location, Season: r.Season}
}

func ByMonth(r Record) MonthKey {
	return MonthKey{Location: r.Location, Month: r.Timestamp.Month()}
}
