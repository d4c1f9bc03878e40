package control

import (
	"math"
	"strconv"

	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
)

// IdSuffix is the last part of every control identifier
const IdSuffix = "control"

const (
	keySuffixMode  = "mode"
	keySuffixValue = "value"
)

// Control decides which value should be applied to a single actuator (e.g. a GPU fan):
// a value set by the user, a value computed by an automatic controller,
// or none at all, leaving the hardware to its default behavior.
//
// Mode and software value are persisted in the given settings store.
// Control is not safe for concurrent use, callers have to serialize access.
type Control struct {
	id       identifier.Identifier
	settings settings.Settings

	mode          ControlMode
	softwareValue float64
	// absent as long as no automatic controller made a decision
	controlValue util.Optional[float64]

	minSoftwareValue float64
	maxSoftwareValue float64

	observers observers
}

// NewControl creates the control of the given sensor and restores its last
// mode and software value from settings. No change notification is sent.
//
// minSoftwareValue and maxSoftwareValue describe the range supported by the
// hardware, they are not enforced by the control itself.
func NewControl(sensorId identifier.Identifier, settings settings.Settings, minSoftwareValue float64, maxSoftwareValue float64) *Control {
	c := &Control{
		id:               sensorId.Child(IdSuffix),
		settings:         settings,
		minSoftwareValue: minSoftwareValue,
		maxSoftwareValue: maxSoftwareValue,
	}

	c.softwareValue = c.loadSoftwareValue()
	c.mode = c.loadMode()

	return c
}

func (c *Control) loadSoftwareValue() float64 {
	key := c.valueKey()
	text := c.settings.GetValue(key, "0")
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || !util.IsFinite(value) {
		ui.Debug("Ignoring invalid persisted value '%s' of %s", text, key)
		return 0
	}
	return value
}

func (c *Control) loadMode() ControlMode {
	key := c.modeKey()
	text := c.settings.GetValue(key, strconv.Itoa(int(ControlModeUndefined)))
	number, err := strconv.Atoi(text)
	mode := ControlMode(number)
	if err != nil || !mode.IsValid() {
		ui.Debug("Ignoring invalid persisted mode '%s' of %s", text, key)
		return ControlModeUndefined
	}
	return mode
}

func (c *Control) modeKey() string {
	return c.id.Child(keySuffixMode).String()
}

func (c *Control) valueKey() string {
	return c.id.Child(keySuffixValue).String()
}

func (c *Control) GetId() identifier.Identifier {
	return c.id
}

func (c *Control) ControlMode() ControlMode {
	return c.mode
}

// DesiredValue returns the value that should be applied to the actuator.
// An absent value means the hardware default behavior should be used.
func (c *Control) DesiredValue() util.Optional[float64] {
	switch c.mode {
	case ControlModeSoftware:
		return util.Some(c.softwareValue)
	case ControlModeControlled:
		return c.controlValue
	default:
		return util.None[float64]()
	}
}

func (c *Control) SoftwareValue() float64 {
	return c.softwareValue
}

func (c *Control) ControlValue() util.Optional[float64] {
	return c.controlValue
}

func (c *Control) MinSoftwareValue() float64 {
	return c.minSoftwareValue
}

func (c *Control) MaxSoftwareValue() float64 {
	return c.maxSoftwareValue
}

// SetSoftware stores value as the software value and switches to ControlModeSoftware.
// The value is not clamped to [MinSoftwareValue..MaxSoftwareValue].
func (c *Control) SetSoftware(value float64) {
	c.setSoftwareValue(value)
	c.setMode(ControlModeSoftware)
}

// EnableAutomaticControl hands control over to the value provided via SetControlled
func (c *Control) EnableAutomaticControl() {
	c.setMode(ControlModeControlled)
}

// SetControlled stores the decision of an automatic controller.
// It only becomes the desired value while in ControlModeControlled.
func (c *Control) SetControlled(value util.Optional[float64]) {
	if c.controlValue.Equals(value) {
		return
	}
	c.controlValue = value
	if c.mode == ControlModeControlled {
		c.notify()
	}
}

// SetDefault releases the actuator to its hardware default behavior
func (c *Control) SetDefault() {
	c.setMode(ControlModeDefault)
}

// Subscribe registers a handler that is called synchronously whenever the mode
// or the value relevant for the current mode changes.
// The handler must not modify the control it is called for.
func (c *Control) Subscribe(handler ChangedHandler) Subscription {
	return c.observers.subscribe(handler)
}

// Unsubscribe removes a handler, returns false if it was not registered
func (c *Control) Unsubscribe(subscription Subscription) bool {
	return c.observers.unsubscribe(subscription)
}

func (c *Control) setMode(mode ControlMode) {
	if c.mode == mode {
		return
	}
	c.mode = mode
	c.notify()
	c.settings.SetValue(c.modeKey(), strconv.Itoa(int(mode)))
}

func (c *Control) setSoftwareValue(value float64) {
	if c.softwareValue == value || (math.IsNaN(c.softwareValue) && math.IsNaN(value)) {
		return
	}
	c.softwareValue = value
	if c.mode == ControlModeSoftware {
		c.notify()
	}
	c.settings.SetValue(c.valueKey(), strconv.FormatFloat(value, 'g', -1, 64))
}

func (c *Control) notify() {
	c.observers.notifyAll(c)
}
