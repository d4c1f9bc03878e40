package statistics

import (
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/markusressel/adl2go/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemSensor = "sensor"

var sensorLabels = []string{"id", "name", "type", "hardware"}

// SensorCollector exports all currently active sensors
type SensorCollector struct {
	value *prometheus.Desc
	min   *prometheus.Desc
	max   *prometheus.Desc
}

func NewSensorCollector() *SensorCollector {
	return &SensorCollector{
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "value"),
			"Current value of the sensor",
			sensorLabels, nil,
		),
		min: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "min"),
			"Lowest value of the sensor since start or the last reset",
			sensorLabels, nil,
		),
		max: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "max"),
			"Highest value of the sensor since start or the last reset",
			sensorLabels, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.min
	ch <- collector.max
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	hardware.WithLock(func() {
		for _, sensor := range sensors.SensorMap.Items() {
			labels := []string{
				sensor.GetId().String(),
				sensor.GetName(),
				sensor.GetType().String(),
				sensor.GetHardwareId().String(),
			}
			sendOptional(ch, collector.value, sensor.GetValue(), labels)
			sendOptional(ch, collector.min, sensor.GetMin(), labels)
			sendOptional(ch, collector.max, sensor.GetMax(), labels)
		}
	})
}

// sendOptional skips absent values instead of exporting a misleading zero
func sendOptional(ch chan<- prometheus.Metric, desc *prometheus.Desc, value util.Optional[float64], labels []string) {
	if v, ok := value.Get(); ok {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, v, labels...)
	}
}
