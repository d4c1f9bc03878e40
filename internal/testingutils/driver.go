package testingutils

import (
	"fmt"
	"sync"

	"github.com/markusressel/adl2go/internal/adl"
)

// FanSpeedCall records a single write to the fan of a FakeDriver
type FanSpeedCall struct {
	Adapter int
	// Default is true for SetFanSpeedToDefault calls
	Default bool
	Value   adl.FanSpeedValue
}

// FakeAdapter holds the readings of a single adapter of a FakeDriver.
// A nil pointer makes the corresponding read fail with adl.ErrNotSupported.
type FakeAdapter struct {
	Info         adl.AdapterInfo
	Temperature  *adl.Temperature
	FanSpeedInfo *adl.FanSpeedInfo
	FanRpm       *int
	FanPercent   *int
	Activity     *adl.PMActivity
}

// FakeDriver is an in-memory adl.Driver recording all fan speed writes
type FakeDriver struct {
	mu    sync.Mutex
	Cards []*FakeAdapter
	Calls []FanSpeedCall
}

// NewFakeDriver creates a driver with one fully working adapter per given index
func NewFakeDriver(indices ...int) *FakeDriver {
	d := &FakeDriver{}
	for _, index := range indices {
		d.Cards = append(d.Cards, NewFakeAdapter(index))
	}
	return d
}

func NewFakeAdapter(index int) *FakeAdapter {
	rpm := 1200
	percent := 35
	return &FakeAdapter{
		Info: adl.AdapterInfo{
			Index:        index,
			Name:         fmt.Sprintf("AMD Radeon RX %d", 6800+index),
			VendorId:     adl.VendorIdAti,
			BusNumber:    3 + index,
			DeviceNumber: 0,
		},
		Temperature:  &adl.Temperature{Temperature: 54000},
		FanSpeedInfo: &adl.FanSpeedInfo{MinPercent: 20, MaxPercent: 100, MaxRpm: 3300},
		FanRpm:       &rpm,
		FanPercent:   &percent,
		Activity: &adl.PMActivity{
			EngineClock:     210000,
			MemoryClock:     100000,
			Vddc:            1150,
			ActivityPercent: 37,
		},
	}
}

// Adapter returns the fake adapter with the given index, or nil
func (d *FakeDriver) Adapter(index int) *FakeAdapter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adapter(index)
}

func (d *FakeDriver) adapter(index int) *FakeAdapter {
	for _, a := range d.Cards {
		if a.Info.Index == index {
			return a
		}
	}
	return nil
}

// FanCalls returns a copy of the recorded fan speed writes
func (d *FakeDriver) FanCalls() []FanSpeedCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]FanSpeedCall{}, d.Calls...)
}

// LastFanCall returns the last recorded fan speed write
func (d *FakeDriver) LastFanCall() (FanSpeedCall, bool) {
	calls := d.FanCalls()
	if len(calls) <= 0 {
		return FanSpeedCall{}, false
	}
	return calls[len(calls)-1], true
}

func (d *FakeDriver) Adapters() ([]adl.AdapterInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []adl.AdapterInfo
	for _, a := range d.Cards {
		result = append(result, a.Info)
	}
	return result, nil
}

func (d *FakeDriver) lookup(index int) (*FakeAdapter, error) {
	a := d.adapter(index)
	if a == nil {
		return nil, fmt.Errorf("adapter %d: %w", index, adl.ErrUnknownAdapter)
	}
	return a, nil
}

func (d *FakeDriver) Temperature(index int, _ int) (adl.Temperature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.lookup(index)
	if err != nil {
		return adl.Temperature{}, err
	}
	if a.Temperature == nil {
		return adl.Temperature{}, adl.ErrNotSupported
	}
	return *a.Temperature, nil
}

func (d *FakeDriver) FanSpeedInfo(index int, _ int) (adl.FanSpeedInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.lookup(index)
	if err != nil {
		return adl.FanSpeedInfo{}, err
	}
	if a.FanSpeedInfo == nil {
		return adl.FanSpeedInfo{}, adl.ErrNotSupported
	}
	return *a.FanSpeedInfo, nil
}

func (d *FakeDriver) FanSpeed(index int, _ int, speedType adl.SpeedType) (adl.FanSpeedValue, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.lookup(index)
	if err != nil {
		return adl.FanSpeedValue{}, err
	}
	value := a.FanRpm
	if speedType == adl.SpeedTypePercent {
		value = a.FanPercent
	}
	if value == nil {
		return adl.FanSpeedValue{}, adl.ErrNotSupported
	}
	return adl.FanSpeedValue{SpeedType: speedType, FanSpeed: *value}, nil
}

func (d *FakeDriver) SetFanSpeed(index int, _ int, value adl.FanSpeedValue) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.lookup(index)
	if err != nil {
		return err
	}
	d.Calls = append(d.Calls, FanSpeedCall{Adapter: index, Value: value})
	if value.SpeedType == adl.SpeedTypePercent && a.FanPercent != nil {
		speed := value.FanSpeed
		a.FanPercent = &speed
	}
	return nil
}

func (d *FakeDriver) SetFanSpeedToDefault(index int, _ int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.lookup(index); err != nil {
		return err
	}
	d.Calls = append(d.Calls, FanSpeedCall{Adapter: index, Default: true})
	return nil
}

func (d *FakeDriver) CurrentActivity(index int) (adl.PMActivity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, err := d.lookup(index)
	if err != nil {
		return adl.PMActivity{}, err
	}
	if a.Activity == nil {
		return adl.PMActivity{}, adl.ErrNotSupported
	}
	return *a.Activity, nil
}
