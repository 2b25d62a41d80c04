package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	GiveawayEntryTotal         = "giveaway_entries_total"
	GiveawayWinnerTotal        = "giveaway_winners_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		GiveawayEntryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GiveawayEntryTotal,
			Help: "Count of giveaway entry attempts",
		}, []string{"result"}),
		GiveawayWinnerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GiveawayWinnerTotal,
			Help: "Count of winner selection attempts",
		}, []string{"result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)
