package api

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/util"
)

type SensorDto struct {
	Id       string                 `json:"id"`
	Hardware string                 `json:"hardware"`
	Name     string                 `json:"name"`
	Type     string                 `json:"type"`
	Unit     string                 `json:"unit"`
	Index    int                    `json:"index"`
	Value    util.Optional[float64] `json:"value"`
	Min      util.Optional[float64] `json:"min"`
	Max      util.Optional[float64] `json:"max"`
	Average  util.Optional[float64] `json:"average"`
	Control  *string                `json:"control"`
}

// NewSensorDto creates a snapshot of the sensor, the hardware lock has to be held
func NewSensorDto(sensor *sensors.Sensor) SensorDto {
	dto := SensorDto{
		Id:       sensor.GetId().String(),
		Hardware: sensor.GetHardwareId().String(),
		Name:     sensor.GetName(),
		Type:     sensor.GetType().String(),
		Unit:     sensor.GetType().Unit(),
		Index:    sensor.GetIndex(),
		Value:    sensor.GetValue(),
		Min:      sensor.GetMin(),
		Max:      sensor.GetMax(),
		Average:  sensor.GetAverage(),
	}
	if c := sensor.GetControl(); c != nil {
		controlId := c.GetId().String()
		dto.Control = &controlId
	}
	return dto
}

func registerSensorEndpoints(rest *echo.Echo) {
	group := rest.Group("/sensor")

	group.GET("/", getSensors)
	group.GET("/"+urlParamId, getSensor)
}

// returns a list of all active sensors, sorted by id
func getSensors(c echo.Context) error {
	var data []SensorDto
	hardware.WithLock(func() {
		for _, sensor := range sensors.SensorMap.Items() {
			data = append(data, NewSensorDto(sensor))
		}
	})
	sort.Slice(data, func(i, j int) bool {
		return data[i].Id < data[j].Id
	})
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getSensor(c echo.Context) error {
	id := identifier.Parse(c.Param(urlParamId)).String()

	var data SensorDto
	var exists bool
	hardware.WithLock(func() {
		var sensor *sensors.Sensor
		sensor, exists = sensors.SensorMap.Get(id)
		if exists {
			data = NewSensorDto(sensor)
		}
	})
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
