package curves

import (
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
)

// PidSpeedCurve drives the speed towards keeping a sensor at its set point
type PidSpeedCurve struct {
	Config configuration.CurveConfig `json:"config"`

	value   curveValue
	pidLoop *util.PidLoop
}

func newPidLoop(config *configuration.PidCurveConfig) *util.PidLoop {
	return util.NewPidLoop(config.P, config.I, config.D, 0, 1)
}

func (c *PidSpeedCurve) GetId() string {
	return c.Config.ID
}

func (c *PidSpeedCurve) Evaluate() (value float64, err error) {
	measured, err := readSensor(c.Config.ID, c.Config.PID.Sensor, false)
	if err != nil {
		ui.Warning("Curve %s: Error getting sensor value: %v", c.Config.ID, err)
		return c.CurrentValue(), err
	}

	loopValue := c.pidLoop.Loop(c.Config.PID.SetPoint, measured)

	// map to expected output range
	value = util.Coerce(loopValue, 0, 1) * 100

	c.value.set(value)
	return value, nil
}

func (c *PidSpeedCurve) CurrentValue() float64 {
	return c.value.get()
}
