package configuration

import (
	"fmt"
	"os"
	"time"

	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	// DbPath is the location of the bolt database used by the "bolt" settings backend
	DbPath   string         `json:"dbPath"`
	Settings SettingsConfig `json:"settings"`

	// SysfsRoot is the mount point of sysfs, used to find amdgpu adapters
	SysfsRoot string `json:"sysfsRoot"`

	// UpdateRate is the interval in which all sensors are read
	UpdateRate time.Duration `json:"updateRate"`
	// HistorySize is the number of readings used to compute sensor averages
	HistorySize int `json:"historySize"`

	// Gpus restricts the adapters to use, empty means all
	Gpus []int `json:"gpus"`

	Curves   []CurveConfig   `json:"curves"`
	Controls []ControlConfig `json:"controls"`

	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
}

type SettingsConfig struct {
	// Backend is one of: bolt | file | memory
	Backend string `json:"backend"`
	// Path of the YAML file used by the "file" backend
	Path string `json:"path"`
}

type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("adl2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/adl2go/")
	}

	viper.SetEnvPrefix("adl2go")
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/adl2go/adl2go.db")
	viper.SetDefault("settings.backend", settings.BackendBolt)
	viper.SetDefault("settings.path", "/etc/adl2go/settings.yaml")
	viper.SetDefault("sysfsRoot", "/sys")
	viper.SetDefault("updateRate", 1*time.Second)
	viper.SetDefault("historySize", 60)
	viper.SetDefault("gpus", []int{})
	viper.SetDefault("curves", []CurveConfig{})
	viper.SetDefault("controls", []ControlConfig{})

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)
}

// ReadConfigFile reads, decodes and validates the configuration file, exiting on failure
func ReadConfigFile() {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	ui.Info("Using configuration file at: %s", viper.ConfigFileUsed())

	if err := LoadConfig(); err != nil {
		ui.Fatal("%v", err)
	}
	if err := Validate(); err != nil {
		ui.Fatal("Config validation failed: %v", err)
	}
}

// LoadConfig decodes the values known to viper into CurrentConfig
func LoadConfig() error {
	var config Configuration
	err := viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		curveStepsHookFunc(),
	)))
	if err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}
	CurrentConfig = config
	return nil
}

// SettingsPath returns the location used by the configured settings backend
func (c Configuration) SettingsPath() string {
	path := c.DbPath
	if c.Settings.Backend == settings.BackendFile {
		path = c.Settings.Path
	}
	if expanded, err := homedir.Expand(path); err == nil {
		return expanded
	}
	return path
}
