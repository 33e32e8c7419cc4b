package service

import "github.com/prometheus/client_golang/prometheus"

var (
	resetsApplied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_resets_applied_total",
			Help: "Reset boundaries applied to task lists",
		},
		[]string{"periodicity"},
	)

	rewardsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewards_granted_total",
			Help: "Reward bundles granted",
		},
		[]string{"source"},
	)
)

func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{resetsApplied, rewardsGranted} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
