package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts accepted participant registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_participants_total",
		Help: "Participant registrations accepted.",
	})

	// DuplicateRegistrationsTotal counts registrations rejected for a phone
	// number already on file.
	DuplicateRegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_duplicates_total",
		Help: "Registrations rejected as duplicate phone numbers.",
	})

	// PaymentsCreatedTotal counts provider invoices created.
	PaymentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_payments_created_total",
		Help: "Payment invoices created with the provider.",
	})

	// PaymentsCompletedTotal counts Unpaid to Paid transitions.
	PaymentsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_payments_completed_total",
		Help: "Payments completed via the success callback.",
	})

	// UploadsTotal counts stored file uploads.
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registration_uploads_total",
		Help: "Files stored by the upload endpoint.",
	})
)
