package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const EndpointPathMetrics = "/metrics/"

func CreateWebserver() *echo.Echo {
	webserver := echo.New()
	webserver.HideBanner = true
	webserver.HidePort = true

	// Root level middleware
	webserver.Pre(middleware.AddTrailingSlash())

	webserver.Use(middleware.Secure())
	webserver.Use(middleware.Recover())

	return webserver
}

// CreateMetricsService serves the metrics collected by gatherer in the prometheus text format
func CreateMetricsService(gatherer prometheus.Gatherer) *echo.Echo {
	webserver := CreateWebserver()
	webserver.GET(EndpointPathMetrics, echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
	return webserver
}
