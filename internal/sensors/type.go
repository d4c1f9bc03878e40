package sensors

import (
	"fmt"
	"strconv"
)

type SensorType int

const (
	SensorTypeVoltage SensorType = iota
	SensorTypeClock
	SensorTypeTemperature
	SensorTypeLoad
	SensorTypeFan
	SensorTypeControl
)

var sensorTypeNames = map[SensorType]string{
	SensorTypeVoltage:     "voltage",
	SensorTypeClock:       "clock",
	SensorTypeTemperature: "temperature",
	SensorTypeLoad:        "load",
	SensorTypeFan:         "fan",
	SensorTypeControl:     "control",
}

var sensorTypeUnits = map[SensorType]string{
	SensorTypeVoltage:     "V",
	SensorTypeClock:       "MHz",
	SensorTypeTemperature: "°C",
	SensorTypeLoad:        "%",
	SensorTypeFan:         "RPM",
	SensorTypeControl:     "%",
}

func (t SensorType) String() string {
	name, ok := sensorTypeNames[t]
	if !ok {
		return fmt.Sprintf("unknown%d", int(t))
	}
	return name
}

func (t SensorType) Unit() string {
	return sensorTypeUnits[t]
}

func (t SensorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
