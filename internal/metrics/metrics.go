// Package metrics exports report figures for the node-exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verte-zerg/fitline/internal/stats"
)

const namespace = "fitline"

type collectors struct {
	timelineDays  prometheus.Gauge
	activeDays    prometheus.Gauge
	pauseDays     prometheus.Gauge
	trainingHours prometheus.Gauge
	distanceKm    prometheus.Gauge
	lastDay       prometheus.Gauge
	calories      *prometheus.GaugeVec
}

func newCollectors() collectors {
	return collectors{
		timelineDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "days",
			Help:      "Number of days in the master timeline.",
		}),
		activeDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "active_days",
			Help:      "Days with recorded training minutes.",
		}),
		pauseDays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "pause_days",
			Help:      "Days without recorded training minutes.",
		}),
		trainingHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "training_hours",
			Help:      "Total training time over the timeline in hours.",
		}),
		distanceKm: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "summary",
			Name:      "distance_kilometers",
			Help:      "Distance estimated from step counts.",
		}),
		lastDay: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "timeline",
			Name:      "last_day_timestamp_seconds",
			Help:      "Unix timestamp of the last timeline day (UTC midnight).",
		}),
		calories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "breakdown",
			Name:      "calories",
			Help:      "Total activity calories per activity type.",
		}, []string{"activity", "label"}),
	}
}

// Registry returns a fresh registry holding the gauges of one report.
func Registry(report stats.Report) *prometheus.Registry {
	c := newCollectors()
	reg := prometheus.NewRegistry()
	reg.MustRegister(c.timelineDays, c.activeDays, c.pauseDays, c.trainingHours, c.distanceKm, c.lastDay, c.calories)

	c.timelineDays.Set(float64(len(report.Timeline)))
	c.activeDays.Set(float64(report.Summary.ActiveDays))
	c.pauseDays.Set(float64(report.Summary.PauseDays))
	c.trainingHours.Set(report.Summary.TotalTrainingHours)
	c.distanceKm.Set(report.Summary.TotalDistanceKm)
	if n := len(report.Timeline); n > 0 {
		c.lastDay.Set(float64(report.Timeline[n-1].Day.UTC().Unix()))
	}
	for _, b := range report.Breakdown {
		c.calories.WithLabelValues(b.Key, b.Label).Set(float64(b.TotalCalories))
	}
	return reg
}

// WriteTextfile writes the report gauges to path in the text exposition format.
func WriteTextfile(path string, report stats.Report) error {
	if err := prometheus.WriteToTextfile(path, Registry(report)); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
