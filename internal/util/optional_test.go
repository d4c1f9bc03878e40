package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional_ZeroValueIsAbsent(t *testing.T) {
	// GIVEN
	var o Optional[float64]

	// WHEN
	value, present := o.Get()

	// THEN
	assert.False(t, present)
	assert.Equal(t, 0.0, value)
	assert.Equal(t, "N/A", o.String())
}

func TestOptional_SomeZeroIsPresent(t *testing.T) {
	// GIVEN
	o := Some(0.0)

	// WHEN
	value, present := o.Get()

	// THEN
	assert.True(t, present)
	assert.Equal(t, 0.0, value)
	assert.False(t, o.Equals(None[float64]()))
}

func TestOptional_Equals(t *testing.T) {
	assert.True(t, None[float64]().Equals(None[float64]()))
	assert.True(t, Some(77.0).Equals(Some(77.0)))
	assert.False(t, Some(77.0).Equals(Some(78.0)))
	assert.False(t, None[float64]().Equals(Some(0.0)))
}

func TestOptional_OrElse(t *testing.T) {
	assert.Equal(t, 5.0, None[float64]().OrElse(5))
	assert.Equal(t, 1.0, Some(1.0).OrElse(5))
}

func TestOptional_JSON(t *testing.T) {
	// GIVEN
	type payload struct {
		A Optional[float64] `json:"a"`
		B Optional[float64] `json:"b"`
	}
	p := payload{A: Some(42.5)}

	// WHEN
	data, err := json.Marshal(p)

	// THEN
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a": 42.5, "b": null}`, string(data))

	// WHEN
	var decoded payload
	err = json.Unmarshal(data, &decoded)

	// THEN
	assert.NoError(t, err)
	assert.True(t, decoded.A.Equals(Some(42.5)))
	assert.False(t, decoded.B.IsPresent())
}
