package internal

import (
	"context"
	"time"

	"github.com/markusressel/adl2go/internal/hardware"
)

type HardwareMonitor interface {
	Run(ctx context.Context) error
}

type hardwareMonitor struct {
	updateRate time.Duration
}

func NewHardwareMonitor(updateRate time.Duration) HardwareMonitor {
	return hardwareMonitor{
		updateRate: updateRate,
	}
}

// Run reads all sensors of all registered hardware every tick
func (m hardwareMonitor) Run(ctx context.Context) error {
	tick := time.NewTicker(m.updateRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			hardware.UpdateAll()
		}
	}
}
