// Package metrics registers the Prometheus collectors for scene generation,
// the gallery and PNG export.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var metricsNamespace = "fractalscape"

var (
	generationDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "scene",
		Name:      "generation_duration_seconds",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		Help:      "Histogram of scene generation duration per kind.",
	}, []string{"kind"})

	scenesGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scene",
		Name:      "generated_total",
		Help:      "Number of scenes generated per kind.",
	}, []string{"kind"})

	scenesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scene",
		Name:      "failed_total",
		Help:      "Number of rejected scene generations per kind.",
	}, []string{"kind"})

	shapesGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "scene",
		Name:      "shapes_total",
		Help:      "Number of generated shapes per shape kind.",
	}, []string{"shape"})

	galleryRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "gallery",
		Name:      "rooms",
		Help:      "Number of open gallery rooms.",
	})

	galleryViewers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "gallery",
		Name:      "viewers",
		Help:      "Number of connected gallery viewers.",
	})

	galleryMessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "gallery",
		Name:      "messages_sent_total",
		Help:      "Number of messages sent to gallery viewers per type.",
	}, []string{"type"})

	exportBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "export",
		Name:      "png_bytes_total",
		Help:      "Number of PNG bytes written.",
	})

	httpRequestDurationSummary = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  metricsNamespace,
		Subsystem:  "http",
		Name:       "request_duration_seconds",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		Help:       "Duration of HTTP requests per route.",
	}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(generationDurationHistogram)
	prometheus.MustRegister(scenesGenerated)
	prometheus.MustRegister(scenesFailed)
	prometheus.MustRegister(shapesGenerated)
	prometheus.MustRegister(galleryRooms)
	prometheus.MustRegister(galleryViewers)
	prometheus.MustRegister(galleryMessagesSent)
	prometheus.MustRegister(exportBytes)
	prometheus.MustRegister(httpRequestDurationSummary)
}

// Generation records scene generation outcomes. The zero value is ready to
// use and satisfies engine.Observer.
type Generation struct{}

func (Generation) SceneGenerated(kind string, elapsed time.Duration, counts map[string]int) {
	generationDurationHistogram.WithLabelValues(kind).Observe(elapsed.Seconds())
	scenesGenerated.WithLabelValues(kind).Inc()
	for shape, n := range counts {
		shapesGenerated.WithLabelValues(shape).Add(float64(n))
	}
}

func (Generation) SceneFailed(kind string) {
	scenesFailed.WithLabelValues(kind).Inc()
}

func RoomOpened()   { galleryRooms.Inc() }
func RoomClosed()   { galleryRooms.Dec() }
func ViewerJoined() { galleryViewers.Inc() }
func ViewerLeft()   { galleryViewers.Dec() }

func MessageSent(msgType string) {
	galleryMessagesSent.WithLabelValues(msgType).Inc()
}

func PNGWritten(n int) {
	exportBytes.Add(float64(n))
}

func ObserveHTTP(started time.Time, route string, code string) {
	httpRequestDurationSummary.WithLabelValues(route, code).Observe(time.Since(started).Seconds())
}
