package curves

import (
	"fmt"

	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/util"
)

// FunctionSpeedCurve combines the values of other curves
type FunctionSpeedCurve struct {
	Config configuration.CurveConfig `json:"config"`

	value curveValue
}

func (c *FunctionSpeedCurve) GetId() string {
	return c.Config.ID
}

func (c *FunctionSpeedCurve) Evaluate() (value float64, err error) {
	var values []float64
	for _, curveId := range c.Config.Function.Curves {
		curve, ok := SpeedCurveMap.Get(curveId)
		if !ok {
			return c.CurrentValue(), fmt.Errorf("curve %s: referenced curve %s not found", c.Config.ID, curveId)
		}
		v, err := curve.Evaluate()
		if err != nil {
			return c.CurrentValue(), err
		}
		values = append(values, v)
	}
	if len(values) <= 0 {
		return c.CurrentValue(), fmt.Errorf("curve %s: no curves to combine", c.Config.ID)
	}

	switch c.Config.Function.Type {
	case configuration.FunctionDelta:
		value = util.Max(values) - util.Min(values)
	case configuration.FunctionMinimum:
		value = util.Min(values)
	case configuration.FunctionMaximum:
		value = util.Max(values)
	case configuration.FunctionAverage:
		value = util.Avg(values)
	default:
		return c.CurrentValue(), fmt.Errorf("curve %s: unknown function: %s", c.Config.ID, c.Config.Function.Type)
	}

	value = util.Coerce(value, 0, 100)
	c.value.set(value)
	return value, nil
}

func (c *FunctionSpeedCurve) CurrentValue() float64 {
	return c.value.get()
}
