package control

import (
	"math"
	"testing"

	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/util"
	"github.com/stretchr/testify/assert"
)

var sensorId = identifier.New("atigpu", "0", "control", "0")

const (
	modeKey  = "/atigpu/0/control/0/control/mode"
	valueKey = "/atigpu/0/control/0/control/value"
)

// CountingSettings records every write
type CountingSettings struct {
	*settings.MemorySettings
	Writes map[string]int
}

func NewCountingSettings() *CountingSettings {
	return &CountingSettings{
		MemorySettings: settings.NewMemorySettings(),
		Writes:         map[string]int{},
	}
}

func (s *CountingSettings) SetValue(key string, value string) {
	s.Writes[key]++
	s.MemorySettings.SetValue(key, value)
}

func (s *CountingSettings) TotalWrites() int {
	total := 0
	for _, count := range s.Writes {
		total += count
	}
	return total
}

func createControl(s settings.Settings) (*Control, *int) {
	c := NewControl(sensorId, s, 0, 100)
	notifications := 0
	c.Subscribe(func(c *Control) {
		notifications++
	})
	return c, &notifications
}

func TestNewControl_Defaults(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()

	// WHEN
	c, notifications := createControl(s)

	// THEN
	assert.Equal(t, "/atigpu/0/control/0/control", c.GetId().String())
	assert.Equal(t, ControlModeUndefined, c.ControlMode())
	assert.Equal(t, 0.0, c.SoftwareValue())
	assert.False(t, c.DesiredValue().IsPresent())
	assert.False(t, c.ControlValue().IsPresent())
	assert.Equal(t, 0, *notifications)
	assert.Equal(t, 0, s.TotalWrites())
}

func TestNewControl_Bounds(t *testing.T) {
	// WHEN
	c := NewControl(sensorId, settings.NewMemorySettings(), 20, 80)

	// THEN
	assert.Equal(t, 20.0, c.MinSoftwareValue())
	assert.Equal(t, 80.0, c.MaxSoftwareValue())
}

func TestNewControl_RestoresPersistedState(t *testing.T) {
	// GIVEN
	s := settings.NewMemorySettings()
	first := NewControl(sensorId, s, 0, 100)
	first.SetSoftware(42.5)

	// WHEN
	second := NewControl(sensorId, s, 0, 100)

	// THEN
	assert.Equal(t, ControlModeSoftware, second.ControlMode())
	assert.Equal(t, 42.5, second.SoftwareValue())
	assert.True(t, second.DesiredValue().Equals(util.Some(42.5)))
}

func TestNewControl_PersistedFormat(t *testing.T) {
	// GIVEN
	s := settings.NewMemorySettings()
	c := NewControl(sensorId, s, 0, 100)

	// WHEN
	c.SetSoftware(42.5)

	// THEN
	assert.Equal(t, "42.5", s.GetValue(valueKey, ""))
	assert.Equal(t, "1", s.GetValue(modeKey, ""))
}

func TestNewControl_PersistedValuePrecision(t *testing.T) {
	// GIVEN
	s := settings.NewMemorySettings()
	value := 1.0 / 3.0
	NewControl(sensorId, s, 0, 100).SetSoftware(value)

	// WHEN
	c := NewControl(sensorId, s, 0, 100)

	// THEN
	assert.Equal(t, value, c.SoftwareValue())
}

func TestNewControl_MalformedMode(t *testing.T) {
	for _, text := range []string{"software", "", "1.5", "42", "-1"} {
		t.Run(text, func(t *testing.T) {
			// GIVEN
			s := settings.NewMemorySettings()
			s.SetValue(modeKey, text)

			// WHEN
			c := NewControl(sensorId, s, 0, 100)

			// THEN
			assert.Equal(t, ControlModeUndefined, c.ControlMode())
		})
	}
}

func TestNewControl_MalformedValue(t *testing.T) {
	for _, text := range []string{"fast", "", "42,5", "NaN", "Inf"} {
		t.Run(text, func(t *testing.T) {
			// GIVEN
			s := settings.NewMemorySettings()
			s.SetValue(modeKey, "1")
			s.SetValue(valueKey, text)

			// WHEN
			c := NewControl(sensorId, s, 0, 100)

			// THEN
			assert.Equal(t, ControlModeSoftware, c.ControlMode())
			assert.Equal(t, 0.0, c.SoftwareValue())
		})
	}
}

func TestSetSoftware_FromUndefined(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)

	// WHEN
	c.SetSoftware(60)

	// THEN
	assert.Equal(t, ControlModeSoftware, c.ControlMode())
	assert.True(t, c.DesiredValue().Equals(util.Some(60.0)))
	// value changed outside of software mode, then the mode changed
	assert.Equal(t, 1, *notifications)
	assert.Equal(t, 1, s.Writes[valueKey])
	assert.Equal(t, 1, s.Writes[modeKey])
}

func TestSetSoftware_SameValueTwice(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)
	c.SetSoftware(60)
	writes := s.TotalWrites()

	// WHEN
	c.SetSoftware(60)

	// THEN
	assert.Equal(t, 1, *notifications)
	assert.Equal(t, writes, s.TotalWrites())
}

func TestSetSoftware_ChangedWhileInSoftware(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)
	c.SetSoftware(60)

	// WHEN
	c.SetSoftware(70)

	// THEN
	assert.Equal(t, 2, *notifications)
	assert.Equal(t, 2, s.Writes[valueKey])
	assert.Equal(t, 1, s.Writes[modeKey])
	assert.Equal(t, 70.0, c.SoftwareValue())
}

func TestSetSoftware_ZeroFromFreshControlChangesOnlyMode(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)

	// WHEN
	c.SetSoftware(0)

	// THEN
	assert.Equal(t, 1, *notifications)
	assert.Equal(t, 0, s.Writes[valueKey])
	assert.Equal(t, 1, s.Writes[modeKey])
	assert.True(t, c.DesiredValue().Equals(util.Some(0.0)))
}

func TestSetSoftware_NotClamped(t *testing.T) {
	// GIVEN
	c := NewControl(sensorId, settings.NewMemorySettings(), 20, 80)

	// WHEN
	c.SetSoftware(150)

	// THEN
	assert.Equal(t, 150.0, c.SoftwareValue())
	assert.True(t, c.DesiredValue().Equals(util.Some(150.0)))
}

func TestSoftwareValue_RetainedAcrossModes(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, _ := createControl(s)
	c.SetSoftware(55)

	// WHEN
	c.SetDefault()

	// THEN
	assert.Equal(t, 55.0, c.SoftwareValue())
	assert.False(t, c.DesiredValue().IsPresent())

	// WHEN
	c.SetSoftware(55)

	// THEN
	assert.True(t, c.DesiredValue().Equals(util.Some(55.0)))
	assert.Equal(t, 1, s.Writes[valueKey])
}

func TestEnableAutomaticControl_Twice(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)

	// WHEN
	c.EnableAutomaticControl()
	c.EnableAutomaticControl()

	// THEN
	assert.Equal(t, ControlModeControlled, c.ControlMode())
	assert.Equal(t, 1, *notifications)
	assert.Equal(t, 1, s.Writes[modeKey])
	assert.Equal(t, "3", s.GetValue(modeKey, ""))
}

func TestEnableAutomaticControl_WithoutDecision(t *testing.T) {
	// GIVEN
	c, _ := createControl(settings.NewMemorySettings())

	// WHEN
	c.EnableAutomaticControl()

	// THEN
	assert.False(t, c.DesiredValue().IsPresent())
}

func TestSetControlled_OutsideControlledMode(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)
	c.SetSoftware(30)
	*notifications = 0

	// WHEN
	c.SetControlled(util.Some(77.0))

	// THEN
	assert.Equal(t, 0, *notifications)
	assert.True(t, c.DesiredValue().Equals(util.Some(30.0)))
	assert.True(t, c.ControlValue().Equals(util.Some(77.0)))

	// WHEN
	c.EnableAutomaticControl()

	// THEN
	assert.Equal(t, 1, *notifications)
	assert.True(t, c.DesiredValue().Equals(util.Some(77.0)))
}

func TestSetControlled_InControlledMode(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)
	c.EnableAutomaticControl()
	writes := s.TotalWrites()

	// WHEN
	c.SetControlled(util.Some(40.0))
	c.SetControlled(util.Some(40.0))
	c.SetControlled(util.Some(45.0))

	// THEN
	assert.Equal(t, 3, *notifications)
	assert.True(t, c.DesiredValue().Equals(util.Some(45.0)))
	// control values are not persisted
	assert.Equal(t, writes, s.TotalWrites())
}

func TestSetControlled_BackToNoDecision(t *testing.T) {
	// GIVEN
	c, notifications := createControl(settings.NewMemorySettings())
	c.EnableAutomaticControl()
	c.SetControlled(util.Some(0.0))

	// WHEN
	c.SetControlled(util.None[float64]())

	// THEN
	assert.Equal(t, 3, *notifications)
	assert.False(t, c.DesiredValue().IsPresent())
}

func TestSetDefault(t *testing.T) {
	for _, setup := range []func(c *Control){
		func(c *Control) { c.SetSoftware(50) },
		func(c *Control) { c.EnableAutomaticControl(); c.SetControlled(util.Some(50.0)) },
	} {
		// GIVEN
		c, notifications := createControl(settings.NewMemorySettings())
		setup(c)
		*notifications = 0

		// WHEN
		c.SetDefault()

		// THEN
		assert.Equal(t, ControlModeDefault, c.ControlMode())
		assert.False(t, c.DesiredValue().IsPresent())
		assert.Equal(t, 1, *notifications)

		// WHEN
		c.SetDefault()

		// THEN
		assert.Equal(t, 1, *notifications)
	}
}

func TestSetDefault_FromUndefined(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c, notifications := createControl(s)

	// WHEN
	c.SetDefault()

	// THEN
	assert.Equal(t, 1, *notifications)
	assert.Equal(t, "2", s.GetValue(modeKey, ""))
}

func TestSubscribe_NotifiesWithControlInRegistrationOrder(t *testing.T) {
	// GIVEN
	c := NewControl(sensorId, settings.NewMemorySettings(), 0, 100)
	var calls []string
	c.Subscribe(func(changed *Control) {
		assert.Same(t, c, changed)
		assert.True(t, changed.DesiredValue().Equals(util.Some(10.0)))
		calls = append(calls, "first")
	})
	c.Subscribe(func(changed *Control) {
		calls = append(calls, "second")
	})

	// WHEN
	c.SetSoftware(10)

	// THEN
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestUnsubscribe(t *testing.T) {
	// GIVEN
	c := NewControl(sensorId, settings.NewMemorySettings(), 0, 100)
	calls := 0
	subscription := c.Subscribe(func(changed *Control) {
		calls++
	})

	// WHEN
	removed := c.Unsubscribe(subscription)
	c.SetDefault()

	// THEN
	assert.True(t, removed)
	assert.Equal(t, 0, calls)
	assert.False(t, c.Unsubscribe(subscription))
}

func TestUnsubscribe_DuringNotification(t *testing.T) {
	// GIVEN
	c := NewControl(sensorId, settings.NewMemorySettings(), 0, 100)
	calls := 0
	var subscription Subscription
	subscription = c.Subscribe(func(changed *Control) {
		changed.Unsubscribe(subscription)
	})
	c.Subscribe(func(changed *Control) {
		calls++
	})

	// WHEN
	c.SetDefault()
	c.EnableAutomaticControl()

	// THEN
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, c.observers.count())
}

func TestSetSoftware_NaN(t *testing.T) {
	// GIVEN
	s := settings.NewMemorySettings()
	c := NewControl(sensorId, s, 0, 100)

	// WHEN
	c.SetSoftware(math.NaN())

	// THEN
	// NaN is accepted, but not restored on the next start
	assert.True(t, math.IsNaN(c.SoftwareValue()))
	assert.Equal(t, 0.0, NewControl(sensorId, s, 0, 100).SoftwareValue())
}

func TestSetSoftware_NaNTwice(t *testing.T) {
	// GIVEN
	s := NewCountingSettings()
	c := NewControl(sensorId, s, 0, 100)
	c.SetSoftware(math.NaN())
	notifications := 0
	c.Subscribe(func(*Control) { notifications++ })

	// WHEN
	c.SetSoftware(math.NaN())

	// THEN
	assert.Equal(t, 0, notifications)
	assert.Equal(t, 1, s.Writes[valueKey])
	assert.Equal(t, 1, s.Writes[modeKey])
}
