package api

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/qdm12/reprint"
)

type CurveDto struct {
	Id     string                    `json:"id"`
	Config configuration.CurveConfig `json:"config"`
	Value  float64                   `json:"value"`
}

func newCurveDto(curve curves.SpeedCurve) CurveDto {
	dto := CurveDto{
		Id:    curve.GetId(),
		Value: curve.CurrentValue(),
	}
	switch c := curve.(type) {
	case *curves.LinearSpeedCurve:
		dto.Config = c.Config
	case *curves.PidSpeedCurve:
		dto.Config = c.Config
	case *curves.FunctionSpeedCurve:
		dto.Config = c.Config
	}
	// the config is shared with the running curve
	dto.Config = reprint.This(dto.Config).(configuration.CurveConfig)
	return dto
}

func registerCurveEndpoints(rest *echo.Echo) {
	group := rest.Group("/curve")

	group.GET("/", getCurves)
	group.GET("/:id/", getCurve)
}

func getCurves(c echo.Context) error {
	var data []CurveDto
	for _, curve := range curves.SpeedCurveMap.Items() {
		data = append(data, newCurveDto(curve))
	}
	sort.Slice(data, func(i, j int) bool {
		return data[i].Id < data[j].Id
	})
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getCurve(c echo.Context) error {
	id := c.Param("id")
	curve, exists := curves.SpeedCurveMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newCurveDto(curve), indentationChar)
}
