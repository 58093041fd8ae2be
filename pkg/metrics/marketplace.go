package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_registrations_total",
		Help: "Accounts registered, by role",
	}, []string{"role"})

	// method is "demo" or "password"
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_logins_total",
		Help: "Successful logins, by method and resolved role",
	}, []string{"method", "role"})

	CartActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_cart_actions_total",
		Help: "Cart actions applied, by action type",
	}, []string{"type"})

	LoyaltyPoints = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_loyalty_points_total",
		Help: "Loyalty points moved, by direction",
	}, []string{"direction"})

	TrackingStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "marketplace_delivery_tracking_streams",
		Help: "Open delivery tracking streams",
	})
)

func Init() {
	prometheus.MustRegister(
		Registrations,
		Logins,
		CartActions,
		LoyaltyPoints,
		TrackingStreams,
	)
}
