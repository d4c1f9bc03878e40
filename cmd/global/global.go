package global

import (
	"fmt"
	"strconv"

	"github.com/markusressel/adl2go/internal/adl"
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/gpu"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/viper"
	"github.com/tomlazar/table"
)

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadOptionalConfig reads the config file if there is one, falling back to the default values otherwise
func LoadOptionalConfig() configuration.Configuration {
	if err := viper.ReadInConfig(); err != nil {
		ui.Debug("No config file used: %v", err)
	} else {
		ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())
	}
	if err := configuration.LoadConfig(); err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}
	return configuration.CurrentConfig
}

// OpenSettings opens the configured settings store
func OpenSettings(config configuration.Configuration) settings.Settings {
	store, err := settings.NewSettings(config.Settings.Backend, config.SettingsPath())
	if err != nil {
		ui.FatalWithoutStacktrace("Unable to open settings at %s: %v", config.SettingsPath(), err)
	}
	return store
}

// DetectGpus opens all configured adapters without modifying their fan settings
func DetectGpus(config configuration.Configuration) []*gpu.AtiGpu {
	driver := adl.NewReadOnlyDriver(adl.NewSysfsDriver(config.SysfsRoot))
	gpus, err := gpu.Detect(driver, OpenSettings(config), config.Gpus)
	if err != nil {
		ui.FatalWithoutStacktrace("Unable to detect adapters: %v", err)
	}
	return gpus
}

func TableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

// FormatSensorValue renders the current value of sensor including its unit
func FormatSensorValue(sensor *sensors.Sensor) string {
	value, ok := sensor.GetValue().Get()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%s %s", strconv.FormatFloat(value, 'f', -1, 64), sensor.GetType().Unit())
}
