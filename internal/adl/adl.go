package adl

import (
	"errors"
)

const (
	// VendorIdAti is the PCI vendor id of AMD/ATI graphics adapters
	VendorIdAti = 0x1002

	// FlagUserDefinedSpeed marks a fan speed as set by software
	FlagUserDefinedSpeed = 1

	FanSpeedInfoFlagReadPercent  = 1
	FanSpeedInfoFlagReadRpm      = 2
	FanSpeedInfoFlagWritePercent = 4
	FanSpeedInfoFlagWriteRpm     = 8
)

var (
	// ErrNotSupported is returned when the adapter does not provide the requested value
	ErrNotSupported = errors.New("not supported")

	// ErrUnknownAdapter is returned for adapter indices not reported by Adapters
	ErrUnknownAdapter = errors.New("unknown adapter")
)

type SpeedType int

const (
	SpeedTypePercent SpeedType = 1
	SpeedTypeRpm     SpeedType = 2
)

// AdapterInfo describes a single graphics adapter
type AdapterInfo struct {
	Index          int    `json:"index"`
	Name           string `json:"name"`
	VendorId       int    `json:"vendorId"`
	BusNumber      int    `json:"busNumber"`
	DeviceNumber   int    `json:"deviceNumber"`
	FunctionNumber int    `json:"functionNumber"`
	Path           string `json:"path"`
}

// Temperature in millidegree Celsius
type Temperature struct {
	Temperature int
}

// FanSpeedInfo describes the supported fan speed range
type FanSpeedInfo struct {
	Flags      int
	MinPercent int
	MaxPercent int
	MinRpm     int
	MaxRpm     int
}

type FanSpeedValue struct {
	SpeedType SpeedType
	FanSpeed  int
	Flags     int
}

// PMActivity is the current power management state of an adapter.
// Clocks are in 10 kHz, Vddc in mV.
type PMActivity struct {
	EngineClock     int
	MemoryClock     int
	Vddc            int
	ActivityPercent int
}

// Driver provides access to the Overdrive functions of ATI adapters
type Driver interface {
	// Adapters returns all ATI adapters present in the system
	Adapters() ([]AdapterInfo, error)

	Temperature(adapter int, thermalController int) (Temperature, error)
	FanSpeedInfo(adapter int, thermalController int) (FanSpeedInfo, error)
	FanSpeed(adapter int, thermalController int, speedType SpeedType) (FanSpeedValue, error)
	SetFanSpeed(adapter int, thermalController int, value FanSpeedValue) error

	// SetFanSpeedToDefault hands fan control back to the adapter firmware
	SetFanSpeedToDefault(adapter int, thermalController int) error

	CurrentActivity(adapter int) (PMActivity, error)
}
