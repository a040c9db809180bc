package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: city"`
	Code  string `json:"code,omitempty" example:"404"`
}

// SearchRequest is the search form submission
type SearchRequest struct {
	City string `json:"city" example:"London"`
}

// LocationRequest carries coordinates a client resolved itself. An empty
// body asks the server to resolve the position on its own.
type LocationRequest struct {
	Lat *float64 `json:"lat" example:"51.5073"`
	Lon *float64 `json:"lon" example:"-0.1276"`
}

// GetDashboard godoc
// @Summary Get dashboard state
// @Description Returns the full view state: current weather, forecast, units, theme and any error banner, converted to the selected display units
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dashboard.View
// @Router /dashboard [get]
func (r *routes) handleDashboard(c *fiber.Ctx) error {
	return c.JSON(r.dash.View())
}

// SearchWeather godoc
// @Summary Search weather by city
// @Description Fetches current weather and the 5-day forecast for a city, sequentially
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body SearchRequest true "City to search"
// @Success 200 {object} dashboard.View
// @Failure 400 {object} ErrorResponse "Missing or empty city"
// @Failure 404 {object} ErrorResponse "City not found"
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Router /dashboard/search [post]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Missing required parameter: city",
		})
	}

	if err := r.dash.Search(c.Context(), city); err != nil {
		return r.fetchError(c, err)
	}

	return c.JSON(r.dash.View())
}

// SetLocation godoc
// @Summary Fetch weather for a location
// @Description Uses posted coordinates, or resolves the position server-side when the body is empty
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body LocationRequest false "Coordinates resolved by the client"
// @Success 200 {object} dashboard.View
// @Failure 502 {object} ErrorResponse "Upstream failure"
// @Failure 503 {object} ErrorResponse "Location unavailable"
// @Router /dashboard/location [post]
func (r *routes) handleLocation(c *fiber.Ctx) error {
	var req LocationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Invalid request body",
			})
		}
	}

	var err error
	if req.Lat != nil && req.Lon != nil {
		err = r.dash.FetchForCoordinates(c.Context(), *req.Lat, *req.Lon)
	} else {
		err = r.dash.UseCurrentLocation(c.Context())
	}
	if err != nil {
		return r.fetchError(c, err)
	}

	return c.JSON(r.dash.View())
}

// ToggleUnits godoc
// @Summary Toggle temperature units
// @Description Flips between Celsius and Fahrenheit display; never refetches
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dashboard.View
// @Router /dashboard/units [post]
func (r *routes) handleToggleUnits(c *fiber.Ctx) error {
	r.dash.ToggleUnits()
	return c.JSON(r.dash.View())
}

// ToggleTheme godoc
// @Summary Toggle color theme
// @Description Flips between light and dark; never refetches
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dashboard.View
// @Router /dashboard/theme [post]
func (r *routes) handleToggleTheme(c *fiber.Ctx) error {
	r.dash.ToggleTheme()
	return c.JSON(r.dash.View())
}

// GetCities godoc
// @Summary Get the city table page
// @Description Returns one page of the bulk city weather table; page is clamped to the valid range
// @Tags Dashboard
// @Produce json
// @Param page query integer false "Page number (default: current)" minimum(1) example(2)
// @Success 200 {object} dashboard.CitiesView
// @Failure 400 {object} ErrorResponse "Invalid page format"
// @Router /dashboard/cities [get]
func (r *routes) handleCities(c *fiber.Ctx) error {
	if page := c.Query("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Invalid page format",
			})
		}
		r.dash.SetCitiesPage(n)
	}

	return c.JSON(r.dash.Cities())
}

func (r *routes) fetchError(c *fiber.Ctx, err error) error {
	apiErr := models.AsAPIError(err)

	r.l.Error(err, map[string]any{"code": apiErr.Code})

	status := fiber.StatusBadGateway
	switch apiErr.Kind {
	case models.KindCityNotFound:
		status = fiber.StatusNotFound
	case models.KindLocationUnavailable:
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(ErrorResponse{
		Error: apiErr.Message,
		Code:  apiErr.Code,
	})
}
