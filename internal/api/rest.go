package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// identifiers contain slashes, so they are matched by a wildcard
	urlParamId      = "*"
	indentationChar = "  "

	EndpointPathAlive = "/alive/"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
)

// CreateRestService creates the REST API, request metrics are recorded on registerer
func CreateRestService(registerer prometheus.Registerer) *echo.Echo {
	echoRest := CreateWebserver()

	echoRest.Use(middleware.Logger())
	echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "api",
		Registerer: registerer,
	}))

	echoRest.GET(EndpointPathAlive, isAlive)

	registerSensorEndpoints(echoRest)
	registerControlEndpoints(echoRest)
	registerCurveEndpoints(echoRest)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}

// return a "bad request" message
func returnBadRequest(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}
