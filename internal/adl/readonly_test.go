package adl

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadOnlyDriver(t *testing.T) {
	// GIVEN
	root := createFakeSysfs(t, createRadeon(0))
	driver := NewReadOnlyDriver(NewSysfsDriver(root))

	// WHEN
	err := driver.SetFanSpeed(0, 0, FanSpeedValue{SpeedType: SpeedTypePercent, FanSpeed: 100, Flags: FlagUserDefinedSpeed})
	assert.NoError(t, err)
	err = driver.SetFanSpeedToDefault(0, 0)
	assert.NoError(t, err)

	// THEN
	pwm, err := os.ReadFile(hwmonAttribute(root, 0, "0000:03:00.0", "pwm1"))
	assert.NoError(t, err)
	assert.Equal(t, "102\n", string(pwm))

	temperature, err := driver.Temperature(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, 54000, temperature.Temperature)
}
