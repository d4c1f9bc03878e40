package identifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_String(t *testing.T) {
	// GIVEN
	id := New("atigpu", "0")

	// WHEN
	result := id.String()

	// THEN
	assert.Equal(t, "/atigpu/0", result)
}

func TestChild(t *testing.T) {
	// GIVEN
	sensorId := New("atigpu", "0").Child("control", "0")

	// WHEN
	controlId := sensorId.Child("control")

	// THEN
	assert.Equal(t, "/atigpu/0/control/0/control", controlId.String())
	assert.Equal(t, "/atigpu/0/control/0/control/mode", controlId.Child("mode").String())
	// the parent is not modified
	assert.Equal(t, "/atigpu/0/control/0", sensorId.String())
}

func TestNew_EscapesSeparator(t *testing.T) {
	// GIVEN
	id := New("gpu", "a/b")

	// WHEN
	result := id.String()

	// THEN
	assert.Equal(t, "/gpu/a_b", result)
	assert.True(t, Parse(result).Equals(id))
}

func TestParse_RoundTrip(t *testing.T) {
	// GIVEN
	text := "/atigpu/1/temperature/0"

	// WHEN
	id := Parse(text)

	// THEN
	assert.Equal(t, []string{"atigpu", "1", "temperature", "0"}, id.Parts())
	assert.Equal(t, text, id.String())
}

func TestParse_IgnoresEmptyParts(t *testing.T) {
	// WHEN
	id := Parse("//atigpu//1/")

	// THEN
	assert.Equal(t, "/atigpu/1", id.String())
}

func TestHasPrefix(t *testing.T) {
	// GIVEN
	gpu := New("atigpu", "0")
	sensor := gpu.Child("fan", "0")

	// THEN
	assert.True(t, sensor.HasPrefix(gpu))
	assert.True(t, sensor.HasPrefix(sensor))
	assert.False(t, gpu.HasPrefix(sensor))
	assert.False(t, sensor.HasPrefix(New("atigpu", "1")))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, New().IsEmpty())
	assert.Equal(t, "/", New().String())
	assert.False(t, New("a").IsEmpty())
}

func TestJSON(t *testing.T) {
	// GIVEN
	type payload struct {
		Id Identifier `json:"id"`
	}
	p := payload{Id: New("atigpu", "0")}

	// WHEN
	data, err := json.Marshal(p)

	// THEN
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id": "/atigpu/0"}`, string(data))

	var decoded payload
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Id.Equals(p.Id))
}
