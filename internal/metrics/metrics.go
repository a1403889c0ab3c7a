package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry with the ledger's metrics.
type Collector struct {
	reg *prometheus.Registry

	Operations        *prometheus.CounterVec   // op, outcome
	OperationDuration *prometheus.HistogramVec // op
	Records           *prometheus.GaugeVec     // kind
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Ledger operations by outcome (accepted or rejection reason).",
		}, []string{"op", "outcome"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations including the save.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}, []string{"op"}),
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ledger_records",
			Help: "Number of records held per kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(c.Operations, c.OperationDuration, c.Records)
	return c
}

// ObserveOperation counts one finished operation.
func (c *Collector) ObserveOperation(op, outcome string, d time.Duration) {
	c.Operations.WithLabelValues(op, outcome).Inc()
	c.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// SetRecordCount sets the record gauge for kind.
func (c *Collector) SetRecordCount(kind string, n int) {
	c.Records.WithLabelValues(kind).Set(float64(n))
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
