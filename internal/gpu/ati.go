package gpu

import (
	"errors"
	"math"
	"strconv"

	"github.com/markusressel/adl2go/internal/adl"
	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
	"golang.org/x/exp/slices"
)

const (
	identifierPrefix = "atigpu"

	// all Overdrive5 calls address the first thermal controller
	thermalController = 0
)

// AtiGpu exposes the sensors and the fan control of a single ATI adapter
type AtiGpu struct {
	hardware.Base

	driver       adl.Driver
	adapterIndex int
	busNumber    int
	deviceNumber int

	temperature   *sensors.Sensor
	fan           *sensors.Sensor
	coreClock     *sensors.Sensor
	memoryClock   *sensors.Sensor
	coreVoltage   *sensors.Sensor
	coreLoad      *sensors.Sensor
	controlSensor *sensors.Sensor

	fanControl   *control.Control
	subscription control.Subscription

	usingDefaultSpeed bool
}

// NewAtiGpu creates the hardware item of the given adapter, applies the
// persisted fan control state and reads the initial values
func NewAtiGpu(driver adl.Driver, info adl.AdapterInfo, settings settings.Settings) *AtiGpu {
	id := identifier.New(identifierPrefix, strconv.Itoa(info.Index))
	g := &AtiGpu{
		Base:         hardware.NewBase(id, info.Name, settings),
		driver:       driver,
		adapterIndex: info.Index,
		busNumber:    info.BusNumber,
		deviceNumber: info.DeviceNumber,
	}

	g.temperature = sensors.NewSensor("GPU Core", 0, sensors.SensorTypeTemperature, id, settings)
	g.fan = sensors.NewSensor("GPU Fan", 0, sensors.SensorTypeFan, id, settings)
	g.coreClock = sensors.NewSensor("GPU Core", 0, sensors.SensorTypeClock, id, settings)
	g.memoryClock = sensors.NewSensor("GPU Memory", 1, sensors.SensorTypeClock, id, settings)
	g.coreVoltage = sensors.NewSensor("GPU Core", 0, sensors.SensorTypeVoltage, id, settings)
	g.coreLoad = sensors.NewSensor("GPU Core", 0, sensors.SensorTypeLoad, id, settings)
	g.controlSensor = sensors.NewSensor("GPU Fan", 0, sensors.SensorTypeControl, id, settings)

	fanInfo, err := driver.FanSpeedInfo(info.Index, thermalController)
	if err != nil {
		ui.Debug("Unable to read fan speed range of %s, assuming 0..100%%: %v", id, err)
		fanInfo.MinPercent = 0
		fanInfo.MaxPercent = 100
	}

	g.fanControl = control.NewControl(g.controlSensor.GetId(), settings, float64(fanInfo.MinPercent), float64(fanInfo.MaxPercent))
	g.subscription = g.fanControl.Subscribe(g.controlChanged)
	g.controlChanged(g.fanControl)
	g.controlSensor.SetControl(g.fanControl)

	g.Update()
	return g
}

func (g *AtiGpu) GetType() hardware.HardwareType {
	return hardware.HardwareTypeGpuAti
}

func (g *AtiGpu) BusNumber() int {
	return g.busNumber
}

func (g *AtiGpu) DeviceNumber() int {
	return g.deviceNumber
}

// FanControl returns the control of the GPU fan
func (g *AtiGpu) FanControl() *control.Control {
	return g.fanControl
}

func (g *AtiGpu) controlChanged(c *control.Control) {
	desired, ok := c.DesiredValue().Get()
	if !ok {
		g.setDefaultFanSpeed()
		return
	}
	if !util.IsFinite(desired) {
		ui.Warning("Ignoring invalid fan speed %v on %s, restoring default", desired, g.GetId())
		g.setDefaultFanSpeed()
		return
	}

	g.usingDefaultSpeed = false
	value := adl.FanSpeedValue{
		SpeedType: adl.SpeedTypePercent,
		Flags:     adl.FlagUserDefinedSpeed,
		// the driver accepts whole percent only
		FanSpeed: int(desired),
	}
	ui.Debug("Applying fan speed %d%% on %s", value.FanSpeed, g.GetId())
	if err := g.driver.SetFanSpeed(g.adapterIndex, thermalController, value); err != nil {
		ui.Warning("Unable to set fan speed of %s: %v", g.GetId(), err)
	}
}

func (g *AtiGpu) setDefaultFanSpeed() {
	ui.Debug("Restoring default fan speed on %s", g.GetId())
	if err := g.driver.SetFanSpeedToDefault(g.adapterIndex, thermalController); err != nil {
		ui.Warning("Unable to restore default fan speed of %s: %v", g.GetId(), err)
	}
	g.usingDefaultSpeed = true
}

// Update reads all sensor values, sensors are activated on their first successful read
func (g *AtiGpu) Update() {
	if t, err := g.driver.Temperature(g.adapterIndex, thermalController); err == nil {
		g.setValue(g.temperature, 0.001*float64(t.Temperature))
	} else {
		g.clearValue(g.temperature, err)
	}

	if f, err := g.driver.FanSpeed(g.adapterIndex, thermalController, adl.SpeedTypeRpm); err == nil {
		g.setValue(g.fan, float64(f.FanSpeed))
	} else {
		g.clearValue(g.fan, err)
	}

	if f, err := g.driver.FanSpeed(g.adapterIndex, thermalController, adl.SpeedTypePercent); err == nil {
		g.setValue(g.controlSensor, float64(f.FanSpeed))
	} else {
		g.clearValue(g.controlSensor, err)
	}

	activity, err := g.driver.CurrentActivity(g.adapterIndex)
	if err != nil {
		g.clearValue(g.coreClock, err)
		g.clearValue(g.memoryClock, err)
		g.clearValue(g.coreVoltage, err)
		g.clearValue(g.coreLoad, err)
		return
	}

	g.setPositiveValue(g.coreClock, 0.01*float64(activity.EngineClock), activity.EngineClock)
	g.setPositiveValue(g.memoryClock, 0.01*float64(activity.MemoryClock), activity.MemoryClock)
	g.setPositiveValue(g.coreVoltage, 0.001*float64(activity.Vddc), activity.Vddc)
	g.setValue(g.coreLoad, math.Min(float64(activity.ActivityPercent), 100))
}

func (g *AtiGpu) setValue(sensor *sensors.Sensor, value float64) {
	sensor.SetValue(util.Some(value))
	g.ActivateSensor(sensor)
}

// setPositiveValue only accepts readings with a positive raw value
func (g *AtiGpu) setPositiveValue(sensor *sensors.Sensor, value float64, raw int) {
	if raw > 0 {
		g.setValue(sensor, value)
	} else {
		sensor.SetValue(util.None[float64]())
	}
}

func (g *AtiGpu) clearValue(sensor *sensors.Sensor, err error) {
	if !errors.Is(err, adl.ErrNotSupported) {
		ui.Debug("Unable to read %s: %v", sensor.GetId(), err)
	}
	sensor.SetValue(util.None[float64]())
}

// Close stops reacting to control changes and hands the fan back to the adapter
func (g *AtiGpu) Close() {
	g.fanControl.Unsubscribe(g.subscription)
	if !g.usingDefaultSpeed {
		g.setDefaultFanSpeed()
	}
	g.DeactivateAll()
}

// Detect creates an AtiGpu for every adapter reported by the driver.
// A non-empty filter restricts the result to the given adapter indices.
func Detect(driver adl.Driver, settings settings.Settings, filter []int) ([]*AtiGpu, error) {
	adapters, err := driver.Adapters()
	if err != nil {
		return nil, err
	}

	var result []*AtiGpu
	for _, info := range adapters {
		if len(filter) > 0 && !slices.Contains(filter, info.Index) {
			ui.Debug("Skipping adapter %d (%s)", info.Index, info.Name)
			continue
		}
		g := NewAtiGpu(driver, info, settings)
		ui.Info("Found %s (%s) on bus %d device %d", g.GetName(), g.GetId(), g.BusNumber(), g.DeviceNumber())
		result = append(result, g)
	}
	return result, nil
}
