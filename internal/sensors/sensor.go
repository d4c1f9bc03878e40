package sensors

import (
	"math"

	"github.com/asecurityteam/rolling"
	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	keySuffixName = "name"
)

var (
	// SensorMap contains all active sensors, keyed by their identifier
	SensorMap = cmap.New[*Sensor]()

	// HistorySize is the number of values used to compute the average of a sensor
	HistorySize = 60
)

// Sensor is a single reading of a hardware item, e.g. the core temperature of a GPU
type Sensor struct {
	id          identifier.Identifier
	hardwareId  identifier.Identifier
	defaultName string
	index       int
	sensorType  SensorType
	settings    settings.Settings

	value util.Optional[float64]
	min   util.Optional[float64]
	max   util.Optional[float64]

	history *rolling.PointPolicy

	control *control.Control
}

// NewSensor creates a sensor with the identifier <hardwareId>/<type>/<index>
func NewSensor(name string, index int, sensorType SensorType, hardwareId identifier.Identifier, settings settings.Settings) *Sensor {
	return &Sensor{
		id:          hardwareId.Child(sensorType.String(), itoa(index)),
		hardwareId:  hardwareId,
		defaultName: name,
		index:       index,
		sensorType:  sensorType,
		settings:    settings,
	}
}

func (s *Sensor) GetId() identifier.Identifier {
	return s.id
}

func (s *Sensor) GetHardwareId() identifier.Identifier {
	return s.hardwareId
}

func (s *Sensor) GetIndex() int {
	return s.index
}

func (s *Sensor) GetType() SensorType {
	return s.sensorType
}

// GetName returns the user defined name of this sensor, or its default name
func (s *Sensor) GetName() string {
	return s.settings.GetValue(s.nameKey(), s.defaultName)
}

// SetName persists a custom name, an empty name restores the default
func (s *Sensor) SetName(name string) {
	if len(name) <= 0 || name == s.defaultName {
		s.settings.Remove(s.nameKey())
		return
	}
	s.settings.SetValue(s.nameKey(), name)
}

func (s *Sensor) nameKey() string {
	return s.id.Child(keySuffixName).String()
}

// GetValue returns the last reading, absent if it could not be read
func (s *Sensor) GetValue() util.Optional[float64] {
	return s.value
}

// SetValue stores a new reading and updates min, max and history.
// An absent value clears the current reading only.
func (s *Sensor) SetValue(value util.Optional[float64]) {
	s.value = value

	v, ok := value.Get()
	if !ok {
		return
	}

	if min, ok := s.min.Get(); !ok || v < min {
		s.min = util.Some(v)
	}
	if max, ok := s.max.Get(); !ok || v > max {
		s.max = util.Some(v)
	}

	if s.history == nil {
		size := int(math.Max(1, float64(HistorySize)))
		s.history = util.CreateRollingWindow(size)
		// avoid averaging with the zero initialized window
		util.FillWindow(s.history, size, v)
	} else {
		s.history.Append(v)
	}
}

func (s *Sensor) GetMin() util.Optional[float64] {
	return s.min
}

func (s *Sensor) GetMax() util.Optional[float64] {
	return s.max
}

func (s *Sensor) ResetMin() {
	s.min = util.None[float64]()
}

func (s *Sensor) ResetMax() {
	s.max = util.None[float64]()
}

// GetAverage returns the average of the last HistorySize readings
func (s *Sensor) GetAverage() util.Optional[float64] {
	if s.history == nil {
		return util.None[float64]()
	}
	return util.Some(util.GetWindowAvg(s.history))
}

// GetControl returns the control attached to this sensor, or nil
func (s *Sensor) GetControl() *control.Control {
	return s.control
}

func (s *Sensor) SetControl(c *control.Control) {
	s.control = c
}

// GetSensor returns the active sensor with the given identifier
func GetSensor(id string) (*Sensor, bool) {
	return SensorMap.Get(identifier.Parse(id).String())
}
