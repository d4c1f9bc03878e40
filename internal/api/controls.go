package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
)

type ControlDto struct {
	Id               string                 `json:"id"`
	Mode             control.ControlMode    `json:"mode"`
	SoftwareValue    float64                `json:"softwareValue"`
	ControlValue     util.Optional[float64] `json:"controlValue"`
	DesiredValue     util.Optional[float64] `json:"desiredValue"`
	MinSoftwareValue float64                `json:"minSoftwareValue"`
	MaxSoftwareValue float64                `json:"maxSoftwareValue"`
}

// ControlUpdate is the body of a POST request to a control.
// A value without a mode switches to software mode.
type ControlUpdate struct {
	Mode  *string  `json:"mode"`
	Value *float64 `json:"value"`
}

// NewControlDto creates a snapshot of the control, the hardware lock has to be held
func NewControlDto(c *control.Control) ControlDto {
	return ControlDto{
		Id:               c.GetId().String(),
		Mode:             c.ControlMode(),
		SoftwareValue:    c.SoftwareValue(),
		ControlValue:     c.ControlValue(),
		DesiredValue:     c.DesiredValue(),
		MinSoftwareValue: c.MinSoftwareValue(),
		MaxSoftwareValue: c.MaxSoftwareValue(),
	}
}

func registerControlEndpoints(rest *echo.Echo) {
	group := rest.Group("/control")

	group.GET("/", getControls)
	group.GET("/"+urlParamId, getControl)
	group.POST("/"+urlParamId, updateControl)
}

// returns a list of all controls of active sensors, sorted by id
func getControls(c echo.Context) error {
	var data []ControlDto
	hardware.WithLock(func() {
		for _, sensor := range sensors.SensorMap.Items() {
			if ctrl := sensor.GetControl(); ctrl != nil {
				data = append(data, NewControlDto(ctrl))
			}
		}
	})
	sort.Slice(data, func(i, j int) bool {
		return data[i].Id < data[j].Id
	})
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getControl(c echo.Context) error {
	id := identifier.Parse(c.Param(urlParamId)).String()

	var data ControlDto
	var exists bool
	hardware.WithLock(func() {
		var sensor *sensors.Sensor
		sensor, exists = hardware.FindControl(id)
		if exists {
			data = NewControlDto(sensor.GetControl())
		}
	})
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func updateControl(c echo.Context) error {
	id := identifier.Parse(c.Param(urlParamId)).String()

	var update ControlUpdate
	if err := c.Bind(&update); err != nil {
		return returnBadRequest(c, fmt.Errorf("invalid body: %w", err))
	}

	var data ControlDto
	var exists bool
	var err error
	hardware.WithLock(func() {
		var sensor *sensors.Sensor
		sensor, exists = hardware.FindControl(id)
		if !exists {
			return
		}
		ctrl := sensor.GetControl()
		if err = ApplyControlUpdate(ctrl, update); err == nil {
			data = NewControlDto(ctrl)
		}
	})
	if !exists {
		return returnNotFound(c, id)
	}
	if err != nil {
		return returnBadRequest(c, err)
	}
	ui.Info("Control %s set to %s via API", id, data.Mode)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

// ApplyControlUpdate executes the command described by update on the control
func ApplyControlUpdate(ctrl *control.Control, update ControlUpdate) error {
	mode := control.ControlModeSoftware
	if update.Mode != nil {
		parsed, err := control.ParseControlMode(*update.Mode)
		if err != nil {
			return err
		}
		mode = parsed
	}

	switch mode {
	case control.ControlModeSoftware:
		if update.Value == nil {
			if update.Mode == nil {
				return errors.New("either mode or value is required")
			}
			ctrl.SetSoftware(ctrl.SoftwareValue())
		} else {
			ctrl.SetSoftware(*update.Value)
		}
	case control.ControlModeDefault:
		ctrl.SetDefault()
	case control.ControlModeControlled:
		ctrl.EnableAutomaticControl()
	default:
		return fmt.Errorf("mode %s cannot be set", mode)
	}
	return nil
}
