package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPidLoop(t *testing.T) {
	// GIVEN
	p, i, d := 1.0, 2.0, 3.0

	// WHEN
	pidLoop := NewPidLoop(p, i, d, 0, 100)

	// THEN
	assert.Equal(t, p, pidLoop.p)
	assert.Equal(t, i, pidLoop.i)
	assert.Equal(t, d, pidLoop.d)
}

func TestPidLoop_FirstIterationIsProportionalOnly(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(2, 100, 100, -100, 100)

	// WHEN
	output := pidLoop.loopAt(time.Unix(0, 0), 10.0, 5.0)

	// THEN
	assert.Equal(t, 10.0, output)
}

func TestPidLoop_I(t *testing.T) {
	// GIVEN
	start := time.Unix(0, 0)
	pidLoop := NewPidLoop(0, 0.5, 0, -100, 100)
	pidLoop.loopAt(start, 10.0, 5.0)

	// WHEN
	output := pidLoop.loopAt(start.Add(2*time.Second), 10.0, 5.0)

	// THEN
	// error 5 integrated over 2 seconds
	assert.InDelta(t, 5.0, output, 0.0001)
}

func TestPidLoop_D(t *testing.T) {
	// GIVEN
	start := time.Unix(0, 0)
	pidLoop := NewPidLoop(0, 0, 1, -100, 100)
	pidLoop.loopAt(start, 10.0, 5.0)

	// WHEN
	output := pidLoop.loopAt(start.Add(1*time.Second), 10.0, 7.0)

	// THEN
	assert.InDelta(t, -2.0, output, 0.0001)
}

func TestPidLoop_Clamped(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(100, 0, 0, 0, 1)

	// WHEN
	output := pidLoop.loopAt(time.Unix(0, 0), 10.0, 5.0)

	// THEN
	assert.Equal(t, 1.0, output)
}

func TestPidLoop_CoolingWithNegativeConstants(t *testing.T) {
	// GIVEN
	pidLoop := NewPidLoop(-0.1, 0, 0, 0, 1)

	// WHEN
	output := pidLoop.loopAt(time.Unix(0, 0), 60.0, 65.0)

	// THEN
	// 5 degrees above the set point
	assert.InDelta(t, 0.5, output, 0.0001)
}

func TestPidLoop_NoTimePassed(t *testing.T) {
	// GIVEN
	start := time.Unix(0, 0)
	pidLoop := NewPidLoop(1, 1, 1, -100, 100)
	first := pidLoop.loopAt(start, 10.0, 5.0)

	// WHEN
	output := pidLoop.loopAt(start, 10.0, 0.0)

	// THEN
	assert.Equal(t, first, output)
}

func TestPidLoop_AntiWindup(t *testing.T) {
	// GIVEN
	start := time.Unix(0, 0)
	pidLoop := NewPidLoop(-1, -1, 0, 0, 1)
	pidLoop.loopAt(start, 60.0, 70.0)

	// WHEN
	// far above the set point for a long time
	pidLoop.loopAt(start.Add(10*time.Second), 60.0, 70.0)
	output := pidLoop.loopAt(start.Add(11*time.Second), 60.0, 59.0)

	// THEN
	// integral did not wind up while saturated, so the output drops immediately
	assert.Equal(t, 0.0, output)
}
