package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NotesCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_created_total",
			Help: "Total number of notes created",
		},
	)

	NotesDeletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_deleted_total",
			Help: "Total number of notes deleted",
		},
	)

	UsersProvisionedCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_provisioned_total",
			Help: "Local user records created, by provisioning source",
		},
		[]string{"source"},
	)

	WebhookEventsCounterVec = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Inbound webhook deliveries, by processing result",
		},
		[]string{"result"},
	)

	RequestDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.LinearBuckets(0.05, 0.05, 10),
		},
	)
)

func Init() {
	prometheus.MustRegister(NotesCreatedCounter)
	prometheus.MustRegister(NotesDeletedCounter)
	prometheus.MustRegister(UsersProvisionedCounterVec)
	prometheus.MustRegister(WebhookEventsCounterVec)
	prometheus.MustRegister(RequestDurationHistogram)
}

func StartMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics server running on %s", port)
		if err := http.ListenAndServe(port, nil); err != nil {
			log.Fatalf("failed to start metrics server: %v", err)
		}
	}()
}

func UserProvisioned(source string) {
	UsersProvisionedCounterVec.WithLabelValues(source).Inc()
}

func WebhookEvent(result string) {
	WebhookEventsCounterVec.WithLabelValues(result).Inc()
}

func ObserveRequest(started time.Time) {
	RequestDurationHistogram.Observe(time.Since(started).Seconds())
}
