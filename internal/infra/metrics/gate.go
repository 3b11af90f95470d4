package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Inbound commands by name after rate limiting.",
		},
		[]string{"command"},
	)

	gateDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_gate_denials_total",
			Help: "Events rejected by the activation gate, per stage (private/group).",
		},
		[]string{"stage"},
	)

	privilegeDenialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_privilege_denials_total",
			Help: "Privileged commands rejected because the caller is not an admin.",
		},
	)
)

func init() {
	register(commandsTotal, gateDenialsTotal, privilegeDenialsTotal)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncCommand(command string) {
	commandsTotal.WithLabelValues(norm(command)).Inc()
}

func IncGateDenial(stage string) {
	gateDenialsTotal.WithLabelValues(norm(stage)).Inc()
}

func IncPrivilegeDenial() {
	privilegeDenialsTotal.Inc()
}
