package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed successfully",
	})

	orderPlacementFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_placement_failures_total",
		Help: "Total number of rejected or failed order placements",
	}, []string{"reason"})

	ordersCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_cancelled_total",
		Help: "Total number of orders cancelled",
	})

	ratingsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratings_submitted_total",
		Help: "Total number of ratings added or updated",
	})
)
