package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/adl2go/internal/adl"
	"github.com/markusressel/adl2go/internal/api"
	"github.com/markusressel/adl2go/internal/configuration"
	"github.com/markusressel/adl2go/internal/controller"
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/markusressel/adl2go/internal/gpu"
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/settings"
	"github.com/markusressel/adl2go/internal/statistics"
	"github.com/markusressel/adl2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Fatal("Fan control requires root permissions to be able to modify fan speeds, please run adl2go as root")
	}

	config := configuration.CurrentConfig

	store, err := settings.NewSettings(config.Settings.Backend, config.SettingsPath())
	if err != nil {
		ui.Fatal("Unable to open settings: %v", err)
	}

	driver := adl.NewSysfsDriver(config.SysfsRoot)
	controllers, err := InitializeObjects(driver, store, config)
	if err != nil {
		hardware.CloseAll()
		ui.Fatal("%v", err)
	}
	if hardware.HardwareMap.Count() <= 0 {
		ui.Fatal("No ATI adapters found, exiting.")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err = statistics.RegisterAll(registry); err != nil {
		ui.Fatal("Unable to register statistics: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			addr := fmt.Sprintf(":%d", config.Statistics.Port)
			addWebserver(&g, "statistics server", api.CreateMetricsService(registry), addr)
		}
	}
	{
		if config.Api.Enabled {
			// === REST Api
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)
			addWebserver(&g, "REST api", api.CreateRestService(registry), addr)
		}
	}
	{
		// === hardware monitoring
		mon := NewHardwareMonitor(config.UpdateRate)

		g.Add(func() error {
			err := mon.Run(ctx)
			ui.Info("Hardware monitor stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error monitoring hardware: %v", err)
			}
		})
	}
	{
		// === control controllers
		for _, c := range controllers {
			c := c
			g.Add(func() error {
				return c.Run(ctx)
			}, func(err error) {
				if err != nil {
					ui.ErrorAndNotify("Control Error", "Something went wrong: %v", err)
				}
			})
		}
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	err = g.Run()

	// hand all fans back to the adapters
	hardware.CloseAll()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

func addWebserver(g *run.Group, name string, server *echo.Echo, addr string) {
	g.Add(func() error {
		ui.Info("Starting %s on %s", name, addr)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cannot start %s: %w", name, err)
		}
		return nil
	}, func(err error) {
		ui.Info("Stopping %s...", name)
		timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := server.Shutdown(timeoutCtx); err != nil {
			ui.Warning("Error stopping %s: %v", name, err)
		}
	})
}

// InitializeObjects opens all configured adapters and creates the curves and
// controllers described by config
func InitializeObjects(driver adl.Driver, store settings.Settings, config configuration.Configuration) ([]controller.ControlController, error) {
	sensors.HistorySize = config.HistorySize

	gpus, err := gpu.Detect(driver, store, config.Gpus)
	if err != nil {
		return nil, fmt.Errorf("unable to detect adapters: %w", err)
	}
	for _, g := range gpus {
		hardware.Register(g)
	}

	for _, curveConfig := range config.Curves {
		curve, err := curves.NewSpeedCurve(curveConfig)
		if err != nil {
			return nil, fmt.Errorf("unable to process curve configuration %s: %w", curveConfig.ID, err)
		}
		curves.SpeedCurveMap.Set(curveConfig.ID, curve)
		for _, sensorId := range referencedSensors(curveConfig) {
			if _, ok := sensors.GetSensor(sensorId); !ok {
				ui.Warning("Curve %s: sensor %s is not available", curveConfig.ID, sensorId)
			}
		}
	}

	var result []controller.ControlController
	for _, controlConfig := range config.Controls {
		sensor, ok := hardware.FindControl(controlConfig.ID)
		if !ok {
			return nil, fmt.Errorf("no control with id '%s' found, run 'adl2go detect' to list all controls", controlConfig.ID)
		}
		curve, ok := curves.GetSpeedCurve(controlConfig.Curve)
		if !ok {
			return nil, fmt.Errorf("control %s: no curve with id '%s' found", controlConfig.ID, controlConfig.Curve)
		}
		result = append(result, controller.NewControlController(sensor.GetControl(), curve, controlConfig.GetTickRate(), controlConfig.Enable, controlConfig.MaxChangePerSecond))
	}

	return result, nil
}

func referencedSensors(config configuration.CurveConfig) []string {
	switch {
	case config.Linear != nil:
		return []string{config.Linear.Sensor}
	case config.PID != nil:
		return []string{config.PID.Sensor}
	}
	return nil
}
