package models

// WeatherSnapshot holds current conditions for one place. All values are
// metric (Celsius, m/s, hPa, km); display-unit conversion happens at
// presentation time only. A new snapshot replaces the old one on every
// successful fetch, it is never mutated in place.
type WeatherSnapshot struct {
	City        string  `json:"city" example:"London"`
	Country     string  `json:"country" example:"GB"`
	Temperature int     `json:"temperature" example:"18"`
	FeelsLike   int     `json:"feels_like" example:"17"`
	Condition   string  `json:"condition" example:"Clouds"`
	Description string  `json:"description" example:"scattered clouds"`
	Humidity    int     `json:"humidity" example:"72"`
	WindSpeed   float64 `json:"wind_speed" example:"4.1"`
	Pressure    int     `json:"pressure" example:"1012"`
	Visibility  float64 `json:"visibility" example:"10"`
	Cloudiness  int     `json:"cloudiness" example:"40"`
	Sunrise     int64   `json:"sunrise" example:"1753847536"`
	Sunset      int64   `json:"sunset" example:"1753903412"`
	Lat         float64 `json:"lat" example:"51.5073"`
	Lon         float64 `json:"lon" example:"-0.1276"`
	Icon        string  `json:"icon" example:"03d"`
}
