// Package metrics exposes zone state and driver activity to Prometheus.
package metrics

import (
	"sync"
	"time"

	"zone_heating/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "heating"

// Collector reports the zone state seen on the last driver pass, plus driver counters.
type Collector struct {
	lock  sync.RWMutex
	zones []models.Zone

	zoneTargetTempCelsius  *prometheus.Desc
	zoneTemperatureCelsius *prometheus.Desc
	zoneTargetManualMode   *prometheus.Desc
	zoneTargetSource       *prometheus.Desc

	ticks        prometheus.Counter
	tickErrors   prometheus.Counter
	tickDuration prometheus.Histogram
	adjustments  *prometheus.CounterVec
}

func New() *Collector {
	return &Collector{
		zoneTargetTempCelsius: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "zone", "target_temp_celsius"),
			"Target temperature applied to this zone in degrees celsius",
			[]string{"zone_name"},
			nil,
		),
		zoneTemperatureCelsius: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "zone", "temperature_celsius"),
			"Measured temperature of this zone in degrees celsius",
			[]string{"zone_name"},
			nil,
		),
		zoneTargetManualMode: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "zone", "target_manual_mode"),
			"1 if this zone's target comes from a manual override",
			[]string{"zone_name"},
			nil,
		),
		zoneTargetSource: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "zone", "target_source"),
			"Source of the zone's target. Always 1, the source is in the label",
			[]string{"zone_name", "source"},
			nil,
		),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "ticks_total",
			Help:      "Number of resolution passes over all zones",
		}),
		tickErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "errors_total",
			Help:      "Number of resolution passes that failed for at least one zone",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "driver",
			Name:      "tick_duration_seconds",
			Help:      "Duration of a resolution pass",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "override",
			Name:      "adjustments_total",
			Help:      "Manual target adjustments, by whether an override was created or updated",
		}, []string{"kind"}),
	}
}

// ObserveZones replaces the reported zone state.
func (c *Collector) ObserveZones(zones []models.Zone) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.zones = append(c.zones[:0], zones...)
}

// ObserveTick records one driver pass.
func (c *Collector) ObserveTick(d time.Duration, err error) {
	c.ticks.Inc()
	c.tickDuration.Observe(d.Seconds())
	if err != nil {
		c.tickErrors.Inc()
	}
}

// ObserveAdjustment counts a manual adjustment.
func (c *Collector) ObserveAdjustment(created bool) {
	kind := "updated"
	if created {
		kind = "created"
	}
	c.adjustments.WithLabelValues(kind).Inc()
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.zoneTargetTempCelsius
	ch <- c.zoneTemperatureCelsius
	ch <- c.zoneTargetManualMode
	ch <- c.zoneTargetSource
	c.ticks.Describe(ch)
	c.tickErrors.Describe(ch)
	c.tickDuration.Describe(ch)
	c.adjustments.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	for _, z := range c.zones {
		ch <- prometheus.MustNewConstMetric(c.zoneTargetTempCelsius, prometheus.GaugeValue, z.TargetTempC, z.Name)
		ch <- prometheus.MustNewConstMetric(c.zoneTemperatureCelsius, prometheus.GaugeValue, z.CurrentTempC, z.Name)

		manual := 0.0
		if z.TargetSource == models.SourceManual {
			manual = 1
		}
		ch <- prometheus.MustNewConstMetric(c.zoneTargetManualMode, prometheus.GaugeValue, manual, z.Name)
		if z.TargetSource != "" {
			ch <- prometheus.MustNewConstMetric(c.zoneTargetSource, prometheus.GaugeValue, 1, z.Name, string(z.TargetSource))
		}
	}
	c.ticks.Collect(ch)
	c.tickErrors.Collect(ch)
	c.tickDuration.Collect(ch)
	c.adjustments.Collect(ch)
}
