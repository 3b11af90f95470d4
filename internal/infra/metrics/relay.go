package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	reportsRelayedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_reports_relayed_total",
			Help: "Reports forwarded to the moderation group, by kind (text/photo/video).",
		},
		[]string{"kind"},
	)

	cleanupDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_report_cleanup_deletes_total",
			Help: "Deferred cleanup delete attempts by outcome.",
		},
		[]string{"success"},
	)

	broadcastDeliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_broadcast_delivered_total",
			Help: "Broadcast messages successfully delivered to private users.",
		},
	)

	echoTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_echo_ticks_total",
			Help: "Echo timer ticks that attempted a group send.",
		},
	)
)

func init() {
	register(reportsRelayedTotal, cleanupDeletesTotal, broadcastDeliveredTotal, echoTicksTotal)
}

func IncReportRelayed(kind string) {
	reportsRelayedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncCleanupDelete(success bool) {
	cleanupDeletesTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func IncBroadcastDelivered() {
	broadcastDeliveredTotal.Inc()
}

func IncEchoTick() {
	echoTicksTotal.Inc()
}
