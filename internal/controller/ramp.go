package controller

import (
	"time"

	"github.com/markusressel/adl2go/internal/util"
)

// rampLoop approaches a target value with a limited rate of change
// instead of jumping to it directly
type rampLoop struct {
	// maximum change of the value per second, 0 disables the limit
	maxChangePerSecond float64

	value    util.Optional[float64]
	lastTime time.Time
}

func newRampLoop(maxChangePerSecond float64) *rampLoop {
	return &rampLoop{
		maxChangePerSecond: maxChangePerSecond,
	}
}

// Loop advances the value towards target, based on the time passed since the last call
func (l *rampLoop) Loop(target float64, now time.Time) float64 {
	current, ok := l.value.Get()
	if !ok || l.maxChangePerSecond <= 0 {
		l.value = util.Some(target)
		l.lastTime = now
		return target
	}

	dt := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	maxChangeThisStep := l.maxChangePerSecond * dt
	err := target - current
	// we can be above or below the target,
	// so we add or subtract at most the max change,
	// capped to having reached the target
	if err > 0 {
		current += util.Coerce(maxChangeThisStep, 0, err)
	} else {
		current += util.Coerce(-maxChangeThisStep, err, 0)
	}
	l.value = util.Some(current)
	return current
}

// Reset forgets the current value, the next target is applied directly
func (l *rampLoop) Reset() {
	l.value = util.None[float64]()
}
