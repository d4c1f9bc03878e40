package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/control"
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/markusressel/adl2go/internal/gpu"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/testingutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

const controlPath = "/control/atigpu/0/control/0/control"

func createService(t *testing.T) (*echo.Echo, *testingutils.FakeDriver, *gpu.AtiGpu) {
	driver := testingutils.NewFakeDriver(0)
	g := gpu.NewAtiGpu(driver, driver.Adapter(0).Info, settings.NewMemorySettings())
	t.Cleanup(g.Close)
	return CreateRestService(prometheus.NewRegistry()), driver, g
}

func request(service *echo.Echo, method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if len(body) > 0 {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	service.ServeHTTP(rec, req)
	return rec
}

func TestAlive(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, "/alive", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSensors(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, "/sensor/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result []SensorDto
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result, 7)
	assert.Equal(t, "/atigpu/0/clock/0", result[0].Id)
}

func TestGetSensor(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, "/sensor/atigpu/0/load/0", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "/atigpu/0/load/0", result["id"])
	assert.Equal(t, "load", result["type"])
	assert.Equal(t, 37.0, result["value"])
	assert.Nil(t, result["control"])
}

func TestGetSensor_NotFound(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, "/sensor/atigpu/7/load/0", "")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "/atigpu/7/load/0")
}

func TestGetControl(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, controlPath, "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "/atigpu/0/control/0/control", result["id"])
	assert.Equal(t, "undefined", result["mode"])
	assert.Nil(t, result["desiredValue"])
	assert.Nil(t, result["controlValue"])
	assert.Equal(t, 20.0, result["minSoftwareValue"])
}

func TestGetControls(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodGet, "/control/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result []map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result, 1)
}

func TestUpdateControl_Software(t *testing.T) {
	// GIVEN
	service, driver, g := createService(t)

	// WHEN
	rec := request(service, http.MethodPost, controlPath, `{"mode":"software","value":42.5}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"desiredValue": 42.5`)
	assert.Equal(t, control.ControlModeSoftware, g.FanControl().ControlMode())
	call, _ := driver.LastFanCall()
	assert.Equal(t, 42, call.Value.FanSpeed)
}

func TestUpdateControl_ValueOnly(t *testing.T) {
	// GIVEN
	service, _, g := createService(t)

	// WHEN
	rec := request(service, http.MethodPost, controlPath, `{"value":70}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 70.0, g.FanControl().SoftwareValue())
}

func TestUpdateControl_Modes(t *testing.T) {
	// GIVEN
	service, driver, g := createService(t)
	request(service, http.MethodPost, controlPath, `{"value":70}`)

	// WHEN
	rec := request(service, http.MethodPost, controlPath, `{"mode":"auto"}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, control.ControlModeControlled, g.FanControl().ControlMode())
	call, _ := driver.LastFanCall()
	assert.True(t, call.Default)

	// WHEN
	rec = request(service, http.MethodPost, controlPath, `{"mode":"default"}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, control.ControlModeDefault, g.FanControl().ControlMode())
}

func TestUpdateControl_BadRequest(t *testing.T) {
	// GIVEN
	service, _, g := createService(t)

	tests := []string{
		`{"mode":"turbo"}`,
		`{"mode":"undefined"}`,
		`{}`,
		`{"value":`,
	}

	for _, body := range tests {
		// WHEN
		rec := request(service, http.MethodPost, controlPath, body)

		// THEN
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, control.ControlModeUndefined, g.FanControl().ControlMode())
}

func TestUpdateControl_NotFound(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)

	// WHEN
	rec := request(service, http.MethodPost, "/control/atigpu/3/control/0/control", `{"value":50}`)

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCurve(t *testing.T) {
	// GIVEN
	service, _, _ := createService(t)
	curve, err := curves.NewSpeedCurve(configuration.CurveConfig{
		ID: "gpu",
		Linear: &configuration.LinearCurveConfig{
			Sensor: "/atigpu/0/temperature/0",
			Steps:  configuration.CurveSteps{40: 20, 80: 100},
		},
	})
	assert.NoError(t, err)
	curves.SpeedCurveMap.Set(curve.GetId(), curve)
	defer curves.SpeedCurveMap.Remove(curve.GetId())

	// WHEN
	rec := request(service, http.MethodGet, "/curve/gpu", "")
	list := request(service, http.MethodGet, "/curve/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result CurveDto
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "gpu", result.Id)
	assert.Equal(t, 100.0, result.Config.Linear.Steps[80])
	assert.Equal(t, http.StatusOK, list.Code)
}

func TestMetricsService(t *testing.T) {
	// GIVEN
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "adl2go_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()
	service := CreateMetricsService(registry)

	// WHEN
	rec := request(service, http.MethodGet, "/metrics", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "adl2go_test_total 1")
}
