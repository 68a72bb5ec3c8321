package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hoursRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teamportal",
		Name:      "project_hours_recomputes_total",
		Help:      "Project total hours recomputations by result.",
	}, []string{"result"})

	consistencyRisks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teamportal",
		Name:      "consistency_risks_total",
		Help:      "Writes that committed while a dependent write failed.",
	}, []string{"operation"})
)
