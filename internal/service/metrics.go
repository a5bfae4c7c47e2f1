package service

import "github.com/prometheus/client_golang/prometheus"

var (
	ActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uno_actions_total",
			Help: "Client actions handled, by command and outcome",
		},
		[]string{"command", "outcome"},
	)
	SessionFaults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uno_session_faults_total",
			Help: "Fatal session errors (setup, deck exhausted)",
		},
		[]string{"kind"},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uno_store_errors_total",
			Help: "Snapshot store failures",
		},
		[]string{"op"},
	)
	RoomsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "uno_rooms_active",
			Help: "Rooms currently open",
		},
	)
	GamesWon = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uno_games_won_total",
			Help: "Plays that emptied a hand",
		},
	)
)

func init() {
	prometheus.MustRegister(ActionsTotal)
	prometheus.MustRegister(SessionFaults)
	prometheus.MustRegister(StoreErrors)
	prometheus.MustRegister(RoomsActive)
	prometheus.MustRegister(GamesWon)
}
