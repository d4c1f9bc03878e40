package curves

import (
	"fmt"
	"sync"

	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/sensors"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// SpeedCurve computes a fan speed from sensor readings.
// Evaluate reads sensors, so it has to be called while holding the hardware lock.
type SpeedCurve interface {
	GetId() string
	// Evaluate calculates the current value of the given curve,
	// returns a percentage in [0..100]
	Evaluate() (value float64, err error)
	// CurrentValue returns the result of the last successful evaluation
	CurrentValue() float64
}

var (
	SpeedCurveMap = cmap.New[SpeedCurve]()

	valueMu sync.Mutex
)

func NewSpeedCurve(config configuration.CurveConfig) (SpeedCurve, error) {
	if config.Linear != nil {
		return &LinearSpeedCurve{
			Config: config,
		}, nil
	}

	if config.PID != nil {
		pidLoop := newPidLoop(config.PID)
		return &PidSpeedCurve{
			Config:  config,
			pidLoop: pidLoop,
		}, nil
	}

	if config.Function != nil {
		return &FunctionSpeedCurve{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching curve type for curve: %s", config.ID)
}

// GetSpeedCurve returns the registered curve with the given id
func GetSpeedCurve(id string) (SpeedCurve, bool) {
	return SpeedCurveMap.Get(id)
}

// readSensor returns the current value of the given sensor, or its average if requested
func readSensor(curveId string, sensorId string, average bool) (float64, error) {
	sensor, ok := sensors.GetSensor(sensorId)
	if !ok {
		return 0, fmt.Errorf("curve %s: sensor %s not found", curveId, sensorId)
	}
	value := sensor.GetValue()
	if average {
		value = sensor.GetAverage()
	}
	result, ok := value.Get()
	if !ok {
		return 0, fmt.Errorf("curve %s: sensor %s has no value", curveId, sensorId)
	}
	return result, nil
}

type curveValue struct {
	value float64
}

func (v *curveValue) set(value float64) {
	valueMu.Lock()
	defer valueMu.Unlock()
	v.value = value
}

func (v *curveValue) get() float64 {
	valueMu.Lock()
	defer valueMu.Unlock()
	return v.value
}
