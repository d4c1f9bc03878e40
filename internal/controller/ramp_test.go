package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRampLoop_Unlimited(t *testing.T) {
	// GIVEN
	now := time.Now()
	loop := newRampLoop(0)
	loop.Loop(0, now)

	// WHEN
	result := loop.Loop(80, now.Add(time.Second))

	// THEN
	assert.Equal(t, 80.0, result)
}

func TestRampLoop_MaxChange(t *testing.T) {
	// GIVEN
	now := time.Now()
	loop := newRampLoop(10)

	// WHEN
	result := loop.Loop(20, now)

	// THEN
	assert.Equal(t, 20.0, result)

	// WHEN
	now = now.Add(time.Second)
	result = loop.Loop(80, now)

	// THEN
	assert.Equal(t, 30.0, result)

	// WHEN
	now = now.Add(500 * time.Millisecond)
	result = loop.Loop(0, now)

	// THEN
	assert.Equal(t, 25.0, result)

	// WHEN
	now = now.Add(10 * time.Second)
	result = loop.Loop(0, now)

	// THEN
	assert.Equal(t, 0.0, result)
}

func TestRampLoop_Reset(t *testing.T) {
	// GIVEN
	now := time.Now()
	loop := newRampLoop(1)
	loop.Loop(20, now)

	// WHEN
	loop.Reset()
	result := loop.Loop(80, now.Add(time.Second))

	// THEN
	assert.Equal(t, 80.0, result)
}
