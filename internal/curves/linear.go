package curves

import (
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/util"
)

// LinearSpeedCurve maps the average value of a sensor to a speed,
// either linearly between min and max or interpolated between steps
type LinearSpeedCurve struct {
	Config configuration.CurveConfig `json:"config"`

	value curveValue
}

func (c *LinearSpeedCurve) GetId() string {
	return c.Config.ID
}

func (c *LinearSpeedCurve) Evaluate() (value float64, err error) {
	avgTemp, err := readSensor(c.Config.ID, c.Config.Linear.Sensor, true)
	if err != nil {
		return c.CurrentValue(), err
	}

	steps := c.Config.Linear.Steps
	if len(steps) > 0 {
		value = util.CalculateInterpolatedCurveValue(steps, util.InterpolationTypeLinear, avgTemp)
	} else {
		minTemp := c.Config.Linear.Min
		maxTemp := c.Config.Linear.Max

		if avgTemp >= maxTemp {
			// full throttle if max temp is reached
			value = 100
		} else if avgTemp <= minTemp {
			// turn fan off if at/below min temp
			value = 0
		} else {
			value = util.Ratio(avgTemp, minTemp, maxTemp) * 100
		}
	}

	value = util.Coerce(value, 0, 100)
	c.value.set(value)
	return value, nil
}

func (c *LinearSpeedCurve) CurrentValue() float64 {
	return c.value.get()
}
