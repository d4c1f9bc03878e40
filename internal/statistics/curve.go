package statistics

import (
	"github.com/markusressel/adl2go/internal/curves"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemCurve = "curve"

type CurveCollector struct {
	value *prometheus.Desc
}

func NewCurveCollector() *CurveCollector {
	return &CurveCollector{
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "value"),
			"Current value of the curve",
			[]string{"id"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	for curveId, curve := range curves.SpeedCurveMap.Items() {
		ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, curve.CurrentValue(), curveId)
	}
}
