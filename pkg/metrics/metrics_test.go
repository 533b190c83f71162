package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "rostersim")
				So(manager.subsystem, ShouldEqual, "simulation")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("blocks"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the prefix and labels should be applied", func() {
				manager.trialsTotal.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, mf := range families {
					if strings.HasSuffix(mf.GetName(), "blocks_trials_total") {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty values are supplied", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "rostersim")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("When a correct and a wrong prediction are recorded", func() {
			before := testutil.ToFloat64(globalManager.predictionsTotal.WithLabelValues("correct"))
			RecordPrediction(true)
			RecordPrediction(false)

			Convey("Then the correct counter advances by one", func() {
				So(testutil.ToFloat64(globalManager.predictionsTotal.WithLabelValues("correct")), ShouldEqual, before+1)
			})
		})

		Convey("When a report is recorded", func() {
			RecordReport(62.5, 14)

			Convey("Then the gauges hold the reported values", func() {
				So(testutil.ToFloat64(globalManager.accuracyPercent), ShouldEqual, 62.5)
				So(testutil.ToFloat64(globalManager.leaderWeight), ShouldEqual, 14)
			})
		})

		Convey("When metrics are disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := testutil.ToFloat64(globalManager.fitFailures)
			RecordFitFailure()

			Convey("Then recorders are no-ops", func() {
				So(testutil.ToFloat64(globalManager.fitFailures), ShouldEqual, before)
			})
		})

		Convey("When the remaining recorders are exercised", func() {
			So(func() {
				RecordTrial(12)
				RecordWeightAdjustment("a")
				UpdatePoolSize(300)
				RecordAthleteExcluded("minutes")
				RecordFitLatency(3)
				RecordRepositoryQuery(8, 1000)
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequestDuration("/healthz", "GET", "200", 1)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
