package configuration

import (
	"fmt"
	"strings"

	"github.com/looplab/tarjan"
	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/identifier"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
	"golang.org/x/exp/slices"
)

// Validate checks CurrentConfig for structural errors
func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if err := validateSettings(config); err != nil {
		return err
	}
	if config.UpdateRate <= 0 {
		return fmt.Errorf("updateRate must be positive, got %s", config.UpdateRate)
	}
	if config.HistorySize <= 0 {
		return fmt.Errorf("historySize must be >= 1, got %d", config.HistorySize)
	}
	if err := validateCurves(config); err != nil {
		return err
	}
	if err := validateControls(config); err != nil {
		return err
	}
	return validatePorts(config)
}

func validateSettings(config *Configuration) error {
	supported := []string{settings.BackendBolt, settings.BackendFile, settings.BackendMemory}
	if !slices.Contains(supported, config.Settings.Backend) {
		return fmt.Errorf("unsupported settings backend '%s', use one of: %s", config.Settings.Backend, strings.Join(supported, " | "))
	}
	if config.Settings.Backend != settings.BackendMemory && len(config.SettingsPath()) <= 0 {
		return fmt.Errorf("settings backend '%s' requires a path", config.Settings.Backend)
	}
	return nil
}

func validatePorts(config *Configuration) error {
	if config.Api.Enabled && (config.Api.Port <= 0 || config.Api.Port > 65535) {
		return fmt.Errorf("api: invalid port %d", config.Api.Port)
	}
	if config.Statistics.Enabled && (config.Statistics.Port <= 0 || config.Statistics.Port > 65535) {
		return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
	}
	if config.Api.Enabled && config.Statistics.Enabled && config.Api.Port == config.Statistics.Port {
		return fmt.Errorf("api and statistics cannot share port %d", config.Api.Port)
	}
	return nil
}

func validateCurves(config *Configuration) error {
	graph := make(map[interface{}][]interface{})
	var ids []string

	for _, curveConfig := range config.Curves {
		if len(curveConfig.ID) <= 0 {
			return fmt.Errorf("curve: missing id")
		}
		if slices.Contains(ids, curveConfig.ID) {
			return fmt.Errorf("duplicate curve id detected: %s", curveConfig.ID)
		}
		ids = append(ids, curveConfig.ID)

		subConfigs := 0
		if curveConfig.Linear != nil {
			subConfigs++
		}
		if curveConfig.PID != nil {
			subConfigs++
		}
		if curveConfig.Function != nil {
			subConfigs++
		}
		if subConfigs > 1 {
			return fmt.Errorf("curve %s: only one curve type can be used per curve definition block", curveConfig.ID)
		}
		if subConfigs <= 0 {
			return fmt.Errorf("curve %s: sub-configuration for curve is missing, use one of: linear | pid | function", curveConfig.ID)
		}

		if !isCurveConfigInUse(curveConfig, config.Curves, config.Controls) {
			ui.Warning("Unused curve configuration: %s", curveConfig.ID)
		}

		if curveConfig.Function != nil {
			supportedTypes := []string{FunctionMinimum, FunctionAverage, FunctionMaximum, FunctionDelta}
			if !slices.Contains(supportedTypes, curveConfig.Function.Type) {
				return fmt.Errorf("curve %s: unsupported function type '%s', use one of: %s", curveConfig.ID, curveConfig.Function.Type, strings.Join(supportedTypes, " | "))
			}
			if len(curveConfig.Function.Curves) <= 0 {
				return fmt.Errorf("curve %s: function requires at least one curve", curveConfig.ID)
			}

			var connections []interface{}
			for _, curve := range curveConfig.Function.Curves {
				if curve == curveConfig.ID {
					return fmt.Errorf("curve %s: a curve cannot reference itself", curveConfig.ID)
				}
				if !curveIdExists(curve, config) {
					return fmt.Errorf("curve %s: no curve definition with id '%s' found", curveConfig.ID, curve)
				}
				connections = append(connections, curve)
			}
			graph[curveConfig.ID] = connections
		}

		if curveConfig.Linear != nil {
			linear := curveConfig.Linear
			if err := validateSensorId(curveConfig.ID, linear.Sensor); err != nil {
				return err
			}
			if len(linear.Steps) <= 0 && linear.Min >= linear.Max {
				return fmt.Errorf("curve %s: min (%v) must be lower than max (%v)", curveConfig.ID, linear.Min, linear.Max)
			}
			for temperature, speed := range linear.Steps {
				if speed < 0 || speed > 100 {
					return fmt.Errorf("curve %s: speed %v of step %d is outside of 0..100", curveConfig.ID, speed, temperature)
				}
			}
		}

		if curveConfig.PID != nil {
			pidConfig := curveConfig.PID
			if err := validateSensorId(curveConfig.ID, pidConfig.Sensor); err != nil {
				return err
			}
			if pidConfig.P == 0 && pidConfig.I == 0 && pidConfig.D == 0 {
				return fmt.Errorf("curve %s: all PID constants are zero", curveConfig.ID)
			}
		}
	}

	return validateNoLoops(graph)
}

func validateSensorId(curveId string, sensorId string) error {
	if identifier.Parse(sensorId).IsEmpty() {
		return fmt.Errorf("curve %s: missing sensor id", curveId)
	}
	return nil
}

func validateNoLoops(graph map[interface{}][]interface{}) error {
	output := tarjan.Connections(graph)
	for _, items := range output {
		if len(items) > 1 {
			return fmt.Errorf("you have created a curve dependency cycle: %v", items)
		}
	}
	return nil
}

func isCurveConfigInUse(config CurveConfig, curves []CurveConfig, controls []ControlConfig) bool {
	for _, curveConfig := range curves {
		if curveConfig.Function != nil {
			if util.ContainsString(curveConfig.Function.Curves, config.ID) {
				return true
			}
		}
	}

	for _, controlConfig := range controls {
		if controlConfig.Curve == config.ID {
			return true
		}
	}

	return false
}

func curveIdExists(curveId string, config *Configuration) bool {
	for _, curve := range config.Curves {
		if curve.ID == curveId {
			return true
		}
	}

	return false
}

func validateControls(config *Configuration) error {
	var ids []string
	for _, controlConfig := range config.Controls {
		id := identifier.Parse(controlConfig.ID)
		if id.IsEmpty() {
			return fmt.Errorf("control: missing id")
		}
		parts := id.Parts()
		if parts[len(parts)-1] != control.IdSuffix {
			return fmt.Errorf("control %s: not a control identifier, expected a path ending with /%s", controlConfig.ID, control.IdSuffix)
		}
		if slices.Contains(ids, id.String()) {
			return fmt.Errorf("duplicate control id detected: %s", id)
		}
		ids = append(ids, id.String())

		if len(controlConfig.Curve) <= 0 {
			return fmt.Errorf("control %s: missing curve definition in configuration entry", controlConfig.ID)
		}
		if !curveIdExists(controlConfig.Curve, config) {
			return fmt.Errorf("control %s: no curve definition with id '%s' found", controlConfig.ID, controlConfig.Curve)
		}
		if controlConfig.TickRate < 0 {
			return fmt.Errorf("control %s: tickRate must not be negative", controlConfig.ID)
		}
		if controlConfig.MaxChangePerSecond < 0 {
			return fmt.Errorf("control %s: maxChangePerSecond must not be negative", controlConfig.ID)
		}
	}
	return nil
}
