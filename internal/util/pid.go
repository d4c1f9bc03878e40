package util

import "time"

// PidLoop is a PID controller with output clamping and basic anti-windup.
// For cooling applications (output rises with the measured temperature)
// use negative constants.
type PidLoop struct {
	// Proportional Constant
	p float64
	// Integral Constant
	i float64
	// Derivative Constant
	d float64
	// Minimum output value
	outMin float64
	// Maximum output value
	outMax float64

	// last measured value
	lastMeasured float64
	// integral from previous loop + error, i.e. integral error
	integral float64
	// last execution time of the loop
	lastTime time.Time
	// last output value
	lastOutput float64
}

func NewPidLoop(p, i, d, min, max float64) *PidLoop {
	return &PidLoop{
		p:      p,
		i:      i,
		d:      d,
		outMin: min,
		outMax: max,
	}
}

// Loop advances the pid loop
func (p *PidLoop) Loop(target float64, measured float64) float64 {
	return p.loopAt(time.Now(), target, measured)
}

func (p *PidLoop) loopAt(loopTime time.Time, target float64, measured float64) float64 {
	err := target - measured

	if p.lastTime.IsZero() {
		// first iteration, no time delta available: P-term only
		p.lastMeasured = measured
		p.lastTime = loopTime
		p.integral = 0
		p.lastOutput = Coerce(p.p*err, p.outMin, p.outMax)
		return p.lastOutput
	}

	dt := loopTime.Sub(p.lastTime).Seconds()
	if dt <= 0 {
		return p.lastOutput
	}

	// don't integrate while the integral term pushes further into saturation
	saturated := (p.lastOutput >= p.outMax && p.i*err > 0) || (p.lastOutput <= p.outMin && p.i*err < 0)
	if !saturated {
		p.integral += err * dt
	}

	// derivative on measurement avoids a kick when the target changes
	derivative := (measured - p.lastMeasured) / dt

	output := p.p*err + p.i*p.integral - p.d*derivative

	p.lastTime = loopTime
	p.lastMeasured = measured
	p.lastOutput = Coerce(output, p.outMin, p.outMax)

	return p.lastOutput
}
