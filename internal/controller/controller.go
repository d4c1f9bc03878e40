package controller

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/markusressel/adl2go/internal/util"
)

// ControlController feeds the value of a curve into a control
type ControlController interface {
	Run(ctx context.Context) error
	UpdateControl() error
}

type controlController struct {
	control  *control.Control
	curve    curves.SpeedCurve
	tickRate time.Duration
	// enable switches the control to automatic mode when the controller starts
	enable bool
	ramp   *rampLoop
}

// NewControlController creates a controller for c, a positive maxChangePerSecond
// limits how fast the applied value follows the curve
func NewControlController(c *control.Control, curve curves.SpeedCurve, tickRate time.Duration, enable bool, maxChangePerSecond float64) ControlController {
	return &controlController{
		control:  c,
		curve:    curve,
		tickRate: tickRate,
		enable:   enable,
		ramp:     newRampLoop(maxChangePerSecond),
	}
}

// Run evaluates the curve every tick until ctx is done.
// The mode of the control is left untouched when stopping.
func (f *controlController) Run(ctx context.Context) error {
	if f.enable {
		hardware.WithLock(f.control.EnableAutomaticControl)
		ui.Info("Enabled automatic control of %s", f.control.GetId())
	}

	ui.Info("Starting controller loop for control '%s' using curve '%s'", f.control.GetId(), f.curve.GetId())

	if err := f.UpdateControl(); err != nil {
		ui.Warning("%v", err)
	}

	tick := time.NewTicker(f.tickRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
			if err := f.UpdateControl(); err != nil {
				ui.Warning("%v", err)
			}
		}
	}
}

// UpdateControl evaluates the curve once. A failing curve withdraws the
// decision, which makes the hardware fall back to its default behavior
// while the control is in automatic mode.
func (f *controlController) UpdateControl() (err error) {
	hardware.WithLock(func() {
		var value float64
		value, err = f.curve.Evaluate()
		if err != nil {
			f.control.SetControlled(util.None[float64]())
			f.ramp.Reset()
			err = fmt.Errorf("control %s: unable to evaluate curve %s: %w", f.control.GetId(), f.curve.GetId(), err)
			return
		}

		// the driver only accepts whole percent
		value = math.Round(f.ramp.Loop(value, time.Now()))
		if !f.control.ControlValue().Equals(util.Some(value)) {
			ui.Debug("Control %s: curve %s requests %.0f%%", f.control.GetId(), f.curve.GetId(), value)
		}
		f.control.SetControlled(util.Some(value))
	})
	return err
}
