package adl

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
)

const (
	DefaultSysfsRoot = "/sys"

	maxPwmValue = 255

	pwmEnableManual    = 1
	pwmEnableAutomatic = 2

	// sysfs reports clocks in Hz, ADL in 10 kHz
	hzPerClockUnit = 10000
)

var cardNamePattern = regexp.MustCompile(`^card(\d+)$`)

type adapter struct {
	info       AdapterInfo
	devicePath string
	hwmonPath  string
}

// SysfsDriver implements Driver on top of the amdgpu kernel driver
type SysfsDriver struct {
	root string

	mu       sync.Mutex
	adapters map[int]adapter
}

// NewSysfsDriver creates a driver reading below the given sysfs mount point
func NewSysfsDriver(root string) *SysfsDriver {
	if len(root) <= 0 {
		root = DefaultSysfsRoot
	}
	return &SysfsDriver{root: root}
}

func (d *SysfsDriver) Adapters() ([]AdapterInfo, error) {
	adapters, err := d.scan()
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.adapters = adapters
	d.mu.Unlock()

	var result []AdapterInfo
	for _, index := range util.SortedKeys(adapters) {
		result = append(result, adapters[index].info)
	}
	return result, nil
}

func (d *SysfsDriver) scan() (map[int]adapter, error) {
	drmPath := filepath.Join(d.root, "class", "drm")
	entries, err := os.ReadDir(drmPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[int]adapter{}, nil
		}
		return nil, fmt.Errorf("unable to list %s: %w", drmPath, err)
	}

	result := map[int]adapter{}
	for _, entry := range entries {
		match := cardNamePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		index, _ := strconv.Atoi(match[1])
		devicePath := filepath.Join(drmPath, entry.Name(), "device")

		vendor, err := readHexFromFile(filepath.Join(devicePath, "vendor"))
		if err != nil || vendor != VendorIdAti {
			continue
		}

		hwmonPath, err := findHwmon(devicePath)
		if err != nil {
			ui.Debug("Ignoring %s: %v", entry.Name(), err)
			continue
		}

		info := AdapterInfo{
			Index:    index,
			Name:     readAdapterName(devicePath),
			VendorId: vendor,
			Path:     devicePath,
		}
		info.BusNumber, info.DeviceNumber, info.FunctionNumber = readPciLocation(devicePath)

		result[index] = adapter{
			info:       info,
			devicePath: devicePath,
			hwmonPath:  hwmonPath,
		}
	}
	return result, nil
}

func findHwmon(devicePath string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(devicePath, "hwmon", "hwmon*"))
	if err != nil {
		return "", err
	}
	if len(matches) <= 0 {
		return "", fmt.Errorf("no hwmon interface found in %s", devicePath)
	}
	return matches[0], nil
}

func readAdapterName(devicePath string) string {
	if name, err := util.ReadStringFromFile(filepath.Join(devicePath, "product_name")); err == nil {
		return name
	}
	if deviceId, err := util.ReadStringFromFile(filepath.Join(devicePath, "device")); err == nil {
		return fmt.Sprintf("AMD Radeon (%s)", deviceId)
	}
	return "AMD Radeon"
}

// readPciLocation parses bus, device and function from the resolved device path,
// e.g. ".../0000:03:00.0"
func readPciLocation(devicePath string) (bus int, device int, function int) {
	resolved, err := util.ResolvePath(devicePath)
	if err != nil {
		return -1, -1, -1
	}
	var domain int
	_, err = fmt.Sscanf(filepath.Base(resolved), "%x:%x:%x.%x", &domain, &bus, &device, &function)
	if err != nil {
		return -1, -1, -1
	}
	return bus, device, function
}

func readHexFromFile(path string) (int, error) {
	text, err := util.ReadStringFromFile(path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(strings.TrimPrefix(text, "0x"), 16, 32)
	return int(value), err
}

func (d *SysfsDriver) adapter(index int, thermalController int) (adapter, error) {
	if thermalController != 0 {
		return adapter{}, fmt.Errorf("thermal controller %d: %w", thermalController, ErrNotSupported)
	}

	d.mu.Lock()
	if d.adapters == nil {
		d.mu.Unlock()
		if _, err := d.Adapters(); err != nil {
			return adapter{}, err
		}
		d.mu.Lock()
	}
	a, ok := d.adapters[index]
	d.mu.Unlock()

	if !ok {
		return adapter{}, fmt.Errorf("adapter %d: %w", index, ErrUnknownAdapter)
	}
	return a, nil
}

// readAttribute reads an integer attribute, a missing file yields ErrNotSupported
func readAttribute(path string) (int, error) {
	value, err := util.ReadIntFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotSupported)
	}
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return value, nil
}

func writeAttribute(path string, value int) error {
	if !util.FileExists(path) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrNotSupported)
	}
	if err := util.WriteIntToFile(value, path); err != nil {
		return fmt.Errorf("unable to write %d to %s: %w", value, path, err)
	}
	return nil
}

func (d *SysfsDriver) Temperature(index int, thermalController int) (Temperature, error) {
	a, err := d.adapter(index, thermalController)
	if err != nil {
		return Temperature{}, err
	}
	// hwmon reports millidegree Celsius as well
	value, err := readAttribute(filepath.Join(a.hwmonPath, "temp1_input"))
	if err != nil {
		return Temperature{}, err
	}
	return Temperature{Temperature: value}, nil
}

func (d *SysfsDriver) FanSpeedInfo(index int, thermalController int) (FanSpeedInfo, error) {
	a, err := d.adapter(index, thermalController)
	if err != nil {
		return FanSpeedInfo{}, err
	}
	if !util.FileExists(filepath.Join(a.hwmonPath, "pwm1")) {
		return FanSpeedInfo{}, fmt.Errorf("pwm1: %w", ErrNotSupported)
	}

	info := FanSpeedInfo{
		Flags:      FanSpeedInfoFlagReadPercent | FanSpeedInfoFlagWritePercent,
		MinPercent: 0,
		MaxPercent: 100,
	}
	if util.FileExists(filepath.Join(a.hwmonPath, "fan1_input")) {
		info.Flags |= FanSpeedInfoFlagReadRpm
	}
	if util.FileExists(filepath.Join(a.hwmonPath, "fan1_target")) {
		info.Flags |= FanSpeedInfoFlagWriteRpm
	}
	if value, err := readAttribute(filepath.Join(a.hwmonPath, "fan1_min")); err == nil {
		info.MinRpm = value
	}
	if value, err := readAttribute(filepath.Join(a.hwmonPath, "fan1_max")); err == nil {
		info.MaxRpm = value
	}
	return info, nil
}

func (d *SysfsDriver) FanSpeed(index int, thermalController int, speedType SpeedType) (FanSpeedValue, error) {
	a, err := d.adapter(index, thermalController)
	if err != nil {
		return FanSpeedValue{}, err
	}

	result := FanSpeedValue{SpeedType: speedType}
	switch speedType {
	case SpeedTypePercent:
		pwm, err := readAttribute(filepath.Join(a.hwmonPath, "pwm1"))
		if err != nil {
			return FanSpeedValue{}, err
		}
		result.FanSpeed = pwmToPercent(pwm)
	case SpeedTypeRpm:
		rpm, err := readAttribute(filepath.Join(a.hwmonPath, "fan1_input"))
		if err != nil {
			return FanSpeedValue{}, err
		}
		result.FanSpeed = rpm
	default:
		return FanSpeedValue{}, fmt.Errorf("speed type %d: %w", speedType, ErrNotSupported)
	}

	if enabled, err := readAttribute(filepath.Join(a.hwmonPath, "pwm1_enable")); err == nil && enabled == pwmEnableManual {
		result.Flags = FlagUserDefinedSpeed
	}
	return result, nil
}

func (d *SysfsDriver) SetFanSpeed(index int, thermalController int, value FanSpeedValue) error {
	a, err := d.adapter(index, thermalController)
	if err != nil {
		return err
	}

	var target string
	var raw int
	switch value.SpeedType {
	case SpeedTypePercent:
		target = filepath.Join(a.hwmonPath, "pwm1")
		raw = percentToPwm(value.FanSpeed)
	case SpeedTypeRpm:
		target = filepath.Join(a.hwmonPath, "fan1_target")
		raw = value.FanSpeed
	default:
		return fmt.Errorf("speed type %d: %w", value.SpeedType, ErrNotSupported)
	}

	if !util.FileExists(target) {
		return fmt.Errorf("%s: %w", filepath.Base(target), ErrNotSupported)
	}
	if err = writeAttribute(filepath.Join(a.hwmonPath, "pwm1_enable"), pwmEnableManual); err != nil {
		return err
	}
	ui.Debug("Setting fan speed of adapter %d to %d (%s)", index, raw, filepath.Base(target))
	return writeAttribute(target, raw)
}

func (d *SysfsDriver) SetFanSpeedToDefault(index int, thermalController int) error {
	a, err := d.adapter(index, thermalController)
	if err != nil {
		return err
	}
	ui.Debug("Restoring automatic fan control of adapter %d", index)
	return writeAttribute(filepath.Join(a.hwmonPath, "pwm1_enable"), pwmEnableAutomatic)
}

func (d *SysfsDriver) CurrentActivity(index int) (PMActivity, error) {
	a, err := d.adapter(index, 0)
	if err != nil {
		return PMActivity{}, err
	}

	engineClock, engineErr := readAttribute(filepath.Join(a.hwmonPath, "freq1_input"))
	memoryClock, memoryErr := readAttribute(filepath.Join(a.hwmonPath, "freq2_input"))
	vddc, vddcErr := readAttribute(filepath.Join(a.hwmonPath, "in0_input"))
	load, loadErr := readAttribute(filepath.Join(a.devicePath, "gpu_busy_percent"))

	if engineErr != nil && memoryErr != nil && vddcErr != nil && loadErr != nil {
		return PMActivity{}, fmt.Errorf("current activity: %w", ErrNotSupported)
	}

	return PMActivity{
		EngineClock:     engineClock / hzPerClockUnit,
		MemoryClock:     memoryClock / hzPerClockUnit,
		Vddc:            vddc,
		ActivityPercent: load,
	}, nil
}

func pwmToPercent(pwm int) int {
	return int(math.Round(float64(pwm) * 100 / maxPwmValue))
}

func percentToPwm(percent int) int {
	return int(math.Round(util.Coerce(float64(percent), 0, 100) * maxPwmValue / 100))
}
