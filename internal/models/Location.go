package models

// UnknownPlace is the label used when reverse geocoding fails or yields no
// match. The coordinates stay valid either way.
const UnknownPlace = "Unknown"

// LocationFix is a resolved one-shot position. City and Country default to
// UnknownPlace, they never come back empty.
type LocationFix struct {
	Lat     float64 `json:"lat" example:"51.5073"`
	Lon     float64 `json:"lon" example:"-0.1276"`
	City    string  `json:"city" example:"London"`
	Country string  `json:"country" example:"United Kingdom"`
}
