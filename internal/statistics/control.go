package statistics

import (
	"github.com/markusressel/adl2go/internal/hardware"
	"github.com/markusressel/adl2go/internal/sensors"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemControl = "control"

// ControlCollector exports the state of all controls attached to active sensors
type ControlCollector struct {
	mode          *prometheus.Desc
	softwareValue *prometheus.Desc
	controlValue  *prometheus.Desc
	desiredValue  *prometheus.Desc
}

func NewControlCollector() *ControlCollector {
	return &ControlCollector{
		mode: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemControl, "mode"),
			"Current mode of the control (0 undefined, 1 software, 2 default, 3 controlled)",
			[]string{"id"}, nil,
		),
		softwareValue: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemControl, "software_value"),
			"Value set by the user",
			[]string{"id"}, nil,
		),
		controlValue: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemControl, "control_value"),
			"Value requested by the automatic controller",
			[]string{"id"}, nil,
		),
		desiredValue: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemControl, "desired_value"),
			"Value currently applied to the hardware, absent while the hardware default is used",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControlCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.mode
	ch <- collector.softwareValue
	ch <- collector.controlValue
	ch <- collector.desiredValue
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControlCollector) Collect(ch chan<- prometheus.Metric) {
	hardware.WithLock(func() {
		for _, sensor := range sensors.SensorMap.Items() {
			c := sensor.GetControl()
			if c == nil {
				continue
			}
			labels := []string{c.GetId().String()}
			ch <- prometheus.MustNewConstMetric(collector.mode, prometheus.GaugeValue, float64(c.ControlMode()), labels...)
			ch <- prometheus.MustNewConstMetric(collector.softwareValue, prometheus.GaugeValue, c.SoftwareValue(), labels...)
			sendOptional(ch, collector.controlValue, c.ControlValue(), labels)
			sendOptional(ch, collector.desiredValue, c.DesiredValue(), labels)
		}
	})
}
