package models

import "time"

// CurrentReading is a live temperature observation in degrees Celsius.
type CurrentReading struct {
	RepositoryName string      `json:"repository_name" example:"open-meteo"`
	Location       Coordinates `json:"location"`
	Temperature    float64     `json:"temperature" example:"21.4"`
	ObservedAt     time.Time   `json:"observed_at"`
}
