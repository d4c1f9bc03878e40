package configuration

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

type CurveConfig struct {
	ID       string               `json:"id"`
	Linear   *LinearCurveConfig   `json:"linear,omitempty"`
	PID      *PidCurveConfig      `json:"pid,omitempty"`
	Function *FunctionCurveConfig `json:"function,omitempty"`
}

// CurveSteps maps temperatures to fan speed percentages
type CurveSteps map[int]float64

type LinearCurveConfig struct {
	// Sensor is the identifier of the input sensor, e.g. /atigpu/0/temperature/0
	Sensor string     `json:"sensor"`
	Min    float64    `json:"min"`
	Max    float64    `json:"max"`
	Steps  CurveSteps `json:"steps,omitempty"`
}

type PidCurveConfig struct {
	Sensor   string  `json:"sensor"`
	SetPoint float64 `json:"setPoint"`
	P        float64 `json:"p"`
	I        float64 `json:"i"`
	D        float64 `json:"d"`
}

const (
	FunctionAverage = "average"
	FunctionMinimum = "minimum"
	FunctionMaximum = "maximum"
	// FunctionDelta returns the difference between the largest and the smallest value
	FunctionDelta = "delta"
)

type FunctionCurveConfig struct {
	Type   string   `json:"type"`
	Curves []string `json:"curves"`
}

// curveStepsHookFunc converts the string keys produced by viper into CurveSteps
func curveStepsHookFunc() mapstructure.DecodeHookFuncType {
	stepsType := reflect.TypeOf(CurveSteps{})

	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != stepsType {
			return data, nil
		}

		result := CurveSteps{}
		switch v := data.(type) {
		case map[string]interface{}:
			for k, val := range v {
				key, err := strconv.Atoi(k)
				if err != nil {
					return nil, fmt.Errorf("invalid step %q: %w", k, err)
				}
				value, err := anyToFloat(val)
				if err != nil {
					return nil, fmt.Errorf("invalid value of step %d: %w", key, err)
				}
				result[key] = value
			}
		case map[interface{}]interface{}:
			for k, val := range v {
				key, err := anyToFloat(k)
				if err != nil {
					return nil, fmt.Errorf("invalid step %v: %w", k, err)
				}
				value, err := anyToFloat(val)
				if err != nil {
					return nil, fmt.Errorf("invalid value of step %v: %w", k, err)
				}
				result[int(key)] = value
			}
		default:
			return data, nil
		}
		return result, nil
	}
}

func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		return strconv.ParseFloat(val, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to a number", v)
	}
}
