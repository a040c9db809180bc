package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/pkg/logger"
)

type routes struct {
	dash *dashboard.Dashboard
	l    *logger.Logger
}

func NewRouter(
	app *fiber.App,
	dash *dashboard.Dashboard,
	l *logger.Logger,
) {
	r := &routes{
		dash: dash,
		l:    l,
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/dashboard", r.handleDashboard)
	app.Post("/dashboard/search", r.handleSearch)
	app.Post("/dashboard/location", r.handleLocation)
	app.Post("/dashboard/units", r.handleToggleUnits)
	app.Post("/dashboard/theme", r.handleToggleTheme)
	app.Get("/dashboard/cities", r.handleCities)
}
