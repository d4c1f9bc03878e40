package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "adl2go"
)

// Register adds the collector to the default prometheus registry
func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}

// RegisterAll registers the sensor, control and curve collectors on the given registerer
func RegisterAll(registerer prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		NewSensorCollector(),
		NewControlCollector(),
		NewCurveCollector(),
	} {
		if err := registerer.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
