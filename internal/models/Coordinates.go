package models

import "fmt"

type Coordinates struct {
	Name    string  `json:"name" example:"Berlin"`
	Country string  `json:"country,omitempty" example:"DE"`
	Lat     float64 `json:"lat" example:"52.52"`
	Lon     float64 `json:"lon" example:"13.41"`
}

func (c Coordinates) RequestParams() string {
	return fmt.Sprintf("name: %s lat: %.4f lon: %.4f", c.Name, c.Lat, c.Lon)
}
