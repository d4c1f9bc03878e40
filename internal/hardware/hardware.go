package hardware

import (
	"sync"

	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/exp/slices"
)

type HardwareType string

const (
	HardwareTypeGpuAti HardwareType = "GpuAti"
)

var (
	// HardwareMap contains all opened hardware items, keyed by their identifier
	HardwareMap = cmap.New[Hardware]()

	lock sync.Mutex
)

// Hardware is a physical device exposing a set of sensors
type Hardware interface {
	GetId() identifier.Identifier
	GetName() string
	GetType() HardwareType

	// GetSensors returns the currently active sensors of this hardware
	GetSensors() []*sensors.Sensor

	// Update reads all values from the device
	Update()

	// Close releases the device, restoring its default behavior
	Close()
}

// WithLock runs f while holding the global hardware lock.
// All reads and writes of sensors and controls have to go through it.
func WithLock(f func()) {
	lock.Lock()
	defer lock.Unlock()
	f()
}

// Base implements the bookkeeping shared by all hardware items
type Base struct {
	id       identifier.Identifier
	name     string
	Settings settings.Settings

	active []*sensors.Sensor
}

func NewBase(id identifier.Identifier, name string, settings settings.Settings) Base {
	return Base{
		id:       id,
		name:     name,
		Settings: settings,
	}
}

func (b *Base) GetId() identifier.Identifier {
	return b.id
}

func (b *Base) GetName() string {
	return b.name
}

func (b *Base) GetSensors() []*sensors.Sensor {
	return slices.Clone(b.active)
}

// ActivateSensor makes the sensor visible, activating it twice has no effect
func (b *Base) ActivateSensor(sensor *sensors.Sensor) {
	if slices.Contains(b.active, sensor) {
		return
	}
	b.active = append(b.active, sensor)
	sensors.SensorMap.Set(sensor.GetId().String(), sensor)
	ui.Debug("Activated sensor %s (%s)", sensor.GetId(), sensor.GetName())
}

// DeactivateSensor hides the sensor, deactivating an inactive sensor has no effect
func (b *Base) DeactivateSensor(sensor *sensors.Sensor) {
	index := slices.Index(b.active, sensor)
	if index < 0 {
		return
	}
	b.active = slices.Delete(b.active, index, index+1)
	sensors.SensorMap.Remove(sensor.GetId().String())
	ui.Debug("Deactivated sensor %s", sensor.GetId())
}

// DeactivateAll removes every active sensor, used when closing the hardware
func (b *Base) DeactivateAll() {
	for _, sensor := range b.GetSensors() {
		b.DeactivateSensor(sensor)
	}
}

// Register adds the hardware to HardwareMap
func Register(h Hardware) {
	HardwareMap.Set(h.GetId().String(), h)
}

// CloseAll closes and unregisters every hardware item
func CloseAll() {
	for _, id := range HardwareMap.Keys() {
		h, ok := HardwareMap.Pop(id)
		if !ok {
			continue
		}
		WithLock(h.Close)
		ui.Info("Closed %s (%s)", h.GetName(), id)
	}
}

// UpdateAll updates every registered hardware item under the lock
func UpdateAll() {
	WithLock(func() {
		for _, h := range HardwareMap.Items() {
			h.Update()
		}
	})
}

// FindSensor returns the active sensor with the given identifier from any hardware
func FindSensor(id string) (*sensors.Sensor, bool) {
	return sensors.GetSensor(id)
}

// FindControl returns the sensor carrying the control with the given identifier
func FindControl(id string) (*sensors.Sensor, bool) {
	target := identifier.Parse(id)
	for _, sensor := range sensors.SensorMap.Items() {
		c := sensor.GetControl()
		if c != nil && c.GetId().Equals(target) {
			return sensor, true
		}
	}
	return nil, false
}
