package control

import (
	"testing"

	controls "github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/stretchr/testify/assert"
)

func TestParseSensorId(t *testing.T) {
	// GIVEN
	id := "/atigpu/0/control/0/control"

	// WHEN
	sensorId, err := parseSensorId(id)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "/atigpu/0/control/0", sensorId.String())
	c := controls.NewControl(sensorId, settings.NewMemorySettings(), 0, 100)
	assert.Equal(t, id, c.GetId().String())
}

func TestParseSensorId_NotAControl(t *testing.T) {
	// WHEN
	_, err := parseSensorId("/atigpu/0/control/0")

	// THEN
	assert.EqualError(t, err, "invalid control id: /atigpu/0/control/0, must end with '/control'")
}
