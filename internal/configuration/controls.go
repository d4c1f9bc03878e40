package configuration

import "time"

// ControlConfig binds a control to the curve that drives it automatically
type ControlConfig struct {
	// ID is the identifier of the control, e.g. /atigpu/0/control/0/control
	ID    string `json:"id"`
	Curve string `json:"curve"`
	// Enable switches the control to automatic mode on startup
	Enable bool `json:"enable"`
	// TickRate is the interval in which the curve is evaluated
	TickRate time.Duration `json:"tickRate"`
	// MaxChangePerSecond limits the rate of change of the applied value, 0 means unlimited
	MaxChangePerSecond float64 `json:"maxChangePerSecond"`
}

const DefaultControlTickRate = 1 * time.Second

// GetTickRate returns the configured tick rate or DefaultControlTickRate
func (c ControlConfig) GetTickRate() time.Duration {
	if c.TickRate <= 0 {
		return DefaultControlTickRate
	}
	return c.TickRate
}
