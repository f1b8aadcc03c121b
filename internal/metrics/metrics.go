package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "concentration",
		Name:      "games_started_total",
		Help:      "Number of started concentration games.",
	})

	GamesEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "concentration",
		Name:      "games_ended_total",
		Help:      "Number of ended games by final status.",
	}, []string{"status"})

	PairsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "concentration",
		Name:      "pairs_resolved_total",
		Help:      "Resolved pairs by outcome.",
	}, []string{"outcome"})

	RejectedPicks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "concentration",
		Name:      "rejected_picks_total",
		Help:      "Picks rejected as invalid selections.",
	})

	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "concentration",
		Name:      "active_games",
		Help:      "Games currently held in memory.",
	})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "concentration",
		Name:      "ws_connections",
		Help:      "Open websocket connections.",
	})
)

// ObservePair учитывает результат сравнения пары
func ObservePair(matched bool) {
	if matched {
		PairsResolved.WithLabelValues("match").Inc()
		return
	}
	PairsResolved.WithLabelValues("no_match").Inc()
}
