package adl

// readOnlyDriver forwards all readings and ignores every fan speed change
type readOnlyDriver struct {
	Driver
}

// NewReadOnlyDriver wraps driver so that it can be used to inspect adapters
// without touching their fan settings
func NewReadOnlyDriver(driver Driver) Driver {
	return readOnlyDriver{Driver: driver}
}

func (d readOnlyDriver) SetFanSpeed(int, int, FanSpeedValue) error {
	return nil
}

func (d readOnlyDriver) SetFanSpeedToDefault(int, int) error {
	return nil
}
