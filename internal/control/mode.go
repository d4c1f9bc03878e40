package control

import (
	"fmt"
	"strconv"
	"strings"
)

// ControlMode determines who decides the value applied to an actuator.
// The numeric values are persisted and must not change.
type ControlMode int

const (
	// ControlModeUndefined is the initial state, or the persisted mode could not be read
	ControlModeUndefined ControlMode = 0
	// ControlModeSoftware uses the value explicitly set by the user
	ControlModeSoftware ControlMode = 1
	// ControlModeDefault leaves the actuator to its hardware default behavior
	ControlModeDefault ControlMode = 2
	// ControlModeControlled uses the value supplied by an automatic controller, e.g. a fan curve
	ControlModeControlled ControlMode = 3
)

var controlModeNames = map[ControlMode]string{
	ControlModeUndefined:  "undefined",
	ControlModeSoftware:   "software",
	ControlModeDefault:    "default",
	ControlModeControlled: "controlled",
}

func (m ControlMode) IsValid() bool {
	_, ok := controlModeNames[m]
	return ok
}

func (m ControlMode) String() string {
	name, ok := controlModeNames[m]
	if !ok {
		return fmt.Sprintf("unknown(%d)", int(m))
	}
	return name
}

func (m ControlMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ControlMode) UnmarshalText(text []byte) error {
	mode, err := ParseControlMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseControlMode parses a user provided mode name ("software", "default", "auto", ...)
// or its numeric value
func ParseControlMode(text string) (ControlMode, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if number, err := strconv.Atoi(text); err == nil {
		mode := ControlMode(number)
		if !mode.IsValid() {
			return ControlModeUndefined, fmt.Errorf("unknown control mode: %d", number)
		}
		return mode, nil
	}

	switch text {
	case "auto", "automatic":
		return ControlModeControlled, nil
	case "manual":
		return ControlModeSoftware, nil
	}
	for mode, name := range controlModeNames {
		if name == text {
			return mode, nil
		}
	}
	return ControlModeUndefined, fmt.Errorf("unknown control mode: '%s', use one of: software | default | auto", text)
}
