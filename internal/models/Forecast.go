package models

import "fmt"

// ForecastDay is one calendar day's outlook. It carries the values of the
// first 3-hour feed entry seen for its date, not an aggregate.
type ForecastDay struct {
	Date        string  `json:"date" example:"2025-07-25"`
	TempMax     int     `json:"temp_max" example:"23"`
	TempMin     int     `json:"temp_min" example:"15"`
	Condition   string  `json:"condition" example:"Rain"`
	Description string  `json:"description" example:"light rain"`
	Humidity    int     `json:"humidity" example:"64"`
	WindSpeed   float64 `json:"wind_speed" example:"3.6"`
	Icon        string  `json:"icon" example:"10d"`
	Timestamp   int64   `json:"timestamp" example:"1753455600"`
}

// ForecastSet is the ordered 0-to-5 day outlook for one city.
type ForecastSet struct {
	City    string        `json:"city" example:"London"`
	Country string        `json:"country" example:"GB"`
	Days    []ForecastDay `json:"days"`
}

func (f *ForecastSet) RequestParams() string {
	return fmt.Sprintf("city: %s country: %s days: %d", f.City, f.Country, len(f.Days))
}
