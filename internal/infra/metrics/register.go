package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once    sync.Once
	pending []prometheus.Collector
)

// register queues a collector; each metrics file enqueues its own from init().
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister flushes every queued collector into the default Prometheus
// registry. Safe to call more than once; only the first call registers.
func MustRegister() {
	once.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
