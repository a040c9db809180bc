package dashboard

import (
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/units"
)

// View is the render-ready dashboard state. Conversions to the selected
// display unit are applied here and only here; the stored snapshots stay
// metric.
type View struct {
	State           State            `json:"state"`
	Theme           Theme            `json:"theme"`
	IsCelsius       bool             `json:"is_celsius"`
	TemperatureUnit string           `json:"temperature_unit" example:"°C"`
	WindSpeedUnit   string           `json:"wind_speed_unit" example:"km/h"`
	Weather         *WeatherView     `json:"weather,omitempty"`
	Forecast        *ForecastView    `json:"forecast,omitempty"`
	Error           *models.APIError `json:"error,omitempty"`
}

type WeatherView struct {
	City        string  `json:"city" example:"London"`
	Country     string  `json:"country" example:"GB"`
	Temperature int     `json:"temperature" example:"18"`
	FeelsLike   int     `json:"feels_like" example:"17"`
	Condition   string  `json:"condition" example:"Clouds"`
	Description string  `json:"description" example:"scattered clouds"`
	Humidity    int     `json:"humidity" example:"72"`
	WindSpeed   float64 `json:"wind_speed" example:"14.8"`
	Pressure    int     `json:"pressure" example:"1012"`
	Visibility  float64 `json:"visibility" example:"10"`
	Cloudiness  int     `json:"cloudiness" example:"40"`
	Sunrise     int64   `json:"sunrise" example:"1753847536"`
	Sunset      int64   `json:"sunset" example:"1753903412"`
	Icon        string  `json:"icon" example:"03d"`
}

type ForecastView struct {
	City    string            `json:"city" example:"London"`
	Country string            `json:"country" example:"GB"`
	Days    []ForecastDayView `json:"days"`
}

type ForecastDayView struct {
	Date        string  `json:"date" example:"2025-07-25"`
	TempMax     int     `json:"temp_max" example:"23"`
	TempMin     int     `json:"temp_min" example:"15"`
	Condition   string  `json:"condition" example:"Rain"`
	Description string  `json:"description" example:"light rain"`
	Humidity    int     `json:"humidity" example:"64"`
	WindSpeed   float64 `json:"wind_speed" example:"13.0"`
	Icon        string  `json:"icon" example:"10d"`
}

// CitiesView is one render-ready page of the city table.
type CitiesView struct {
	State           State         `json:"state"`
	Rows            []CityRowView `json:"rows"`
	Page            int           `json:"page" example:"1"`
	TotalPages      int           `json:"total_pages" example:"3"`
	TotalCities     int           `json:"total_cities" example:"25"`
	ShowingFrom     int           `json:"showing_from" example:"1"`
	ShowingTo       int           `json:"showing_to" example:"10"`
	TemperatureUnit string        `json:"temperature_unit" example:"°C"`
	WindSpeedUnit   string        `json:"wind_speed_unit" example:"km/h"`
}

type CityRowView struct {
	City        string  `json:"city" example:"Paris"`
	Country     string  `json:"country" example:"FR"`
	Temperature int     `json:"temperature" example:"21"`
	Condition   string  `json:"condition" example:"Clear"`
	Humidity    int     `json:"humidity" example:"55"`
	WindSpeed   float64 `json:"wind_speed" example:"9.4"`
}

// View renders the main panel in the currently selected units.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		State:           d.state,
		Theme:           d.theme,
		IsCelsius:       d.isCelsius,
		TemperatureUnit: units.TemperatureUnit(d.isCelsius),
		WindSpeedUnit:   units.WindSpeedUnit(d.isCelsius),
		Error:           d.lastErr,
	}

	if d.weather != nil {
		w := weatherView(*d.weather, d.isCelsius)
		v.Weather = &w
	}

	if d.forecast != nil {
		f := ForecastView{
			City:    d.forecast.City,
			Country: d.forecast.Country,
			Days:    make([]ForecastDayView, 0, len(d.forecast.Days)),
		}
		for _, day := range d.forecast.Days {
			f.Days = append(f.Days, ForecastDayView{
				Date:        day.Date,
				TempMax:     units.Temperature(float64(day.TempMax), d.isCelsius),
				TempMin:     units.Temperature(float64(day.TempMin), d.isCelsius),
				Condition:   day.Condition,
				Description: day.Description,
				Humidity:    day.Humidity,
				WindSpeed:   units.WindSpeed(day.WindSpeed, d.isCelsius),
				Icon:        day.Icon,
			})
		}
		v.Forecast = &f
	}

	return v
}

// Cities renders the current city-table page in the selected units.
func (d *Dashboard) Cities() CitiesView {
	d.mu.Lock()
	defer d.mu.Unlock()

	total := len(d.cityRows)
	page := clampPage(d.citiesPage, total)

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}

	v := CitiesView{
		State:           d.citiesState,
		Rows:            make([]CityRowView, 0, end-start),
		Page:            page,
		TotalPages:      totalPages(total),
		TotalCities:     total,
		ShowingFrom:     start + 1,
		ShowingTo:       end,
		TemperatureUnit: units.TemperatureUnit(d.isCelsius),
		WindSpeedUnit:   units.WindSpeedUnit(d.isCelsius),
	}
	if total == 0 {
		v.ShowingFrom = 0
	}

	for _, row := range d.cityRows[start:end] {
		v.Rows = append(v.Rows, CityRowView{
			City:        row.City,
			Country:     row.Country,
			Temperature: units.Temperature(float64(row.Temperature), d.isCelsius),
			Condition:   row.Condition,
			Humidity:    row.Humidity,
			WindSpeed:   units.WindSpeed(row.WindSpeed, d.isCelsius),
		})
	}

	return v
}

func weatherView(w models.WeatherSnapshot, isCelsius bool) WeatherView {
	return WeatherView{
		City:        w.City,
		Country:     w.Country,
		Temperature: units.Temperature(float64(w.Temperature), isCelsius),
		FeelsLike:   units.Temperature(float64(w.FeelsLike), isCelsius),
		Condition:   w.Condition,
		Description: w.Description,
		Humidity:    w.Humidity,
		WindSpeed:   units.WindSpeed(w.WindSpeed, isCelsius),
		Pressure:    w.Pressure,
		Visibility:  w.Visibility,
		Cloudiness:  w.Cloudiness,
		Sunrise:     w.Sunrise,
		Sunset:      w.Sunset,
		Icon:        w.Icon,
	}
}
