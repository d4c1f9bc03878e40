package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlMode_PersistedValues(t *testing.T) {
	assert.Equal(t, 0, int(ControlModeUndefined))
	assert.Equal(t, 1, int(ControlModeSoftware))
	assert.Equal(t, 2, int(ControlModeDefault))
	assert.Equal(t, 3, int(ControlModeControlled))
}

func TestControlMode_String(t *testing.T) {
	assert.Equal(t, "software", ControlModeSoftware.String())
	assert.Equal(t, "controlled", ControlModeControlled.String())
	assert.Equal(t, "unknown(7)", ControlMode(7).String())
}

func TestParseControlMode(t *testing.T) {
	expected := map[string]ControlMode{
		"software":   ControlModeSoftware,
		"Software":   ControlModeSoftware,
		"manual":     ControlModeSoftware,
		"default":    ControlModeDefault,
		"auto":       ControlModeControlled,
		"controlled": ControlModeControlled,
		"undefined":  ControlModeUndefined,
		"3":          ControlModeControlled,
		" 2 ":        ControlModeDefault,
	}

	for input, mode := range expected {
		// WHEN
		result, err := ParseControlMode(input)

		// THEN
		assert.NoError(t, err, input)
		assert.Equal(t, mode, result, input)
	}
}

func TestParseControlMode_Invalid(t *testing.T) {
	for _, input := range []string{"", "turbo", "4", "-1"} {
		// WHEN
		_, err := ParseControlMode(input)

		// THEN
		assert.Error(t, err, input)
	}
}

func TestControlMode_Text(t *testing.T) {
	// GIVEN
	var mode ControlMode

	// WHEN
	err := mode.UnmarshalText([]byte("auto"))

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, ControlModeControlled, mode)
	text, err := mode.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "controlled", string(text))
}
