package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingEditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "care_admin_booking_edits_total",
		Help: "Total number of booking edits committed successfully.",
	})

	HospitalsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "care_admin_hospitals_registered_total",
		Help: "Total number of hospital partners registered.",
	})

	PathologiesVerifiedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "care_admin_pathologies_verified_total",
		Help: "Total number of pathology partners marked verified.",
	})

	OrdersIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "care_admin_orders_ingested_total",
		Help: "Total number of transport orders created from the booking feed.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "care_admin_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
