package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"registration/internal/payment"
	"registration/internal/queue"
	"registration/internal/registration"
	"registration/internal/upload"
	"registration/internal/user"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	users        *user.Service
	participants *registration.Service
	payments     *payment.Service
	uploads      *upload.Storage
	queue        queue.Queue

	jwtIssuer     string
	jwtSigningKey string
	tokenTTL      time.Duration
	successPage   string
}

// New creates a handler.
func New(users *user.Service, participants *registration.Service, payments *payment.Service,
	uploads *upload.Storage, q queue.Queue, jwtIssuer, jwtSigningKey string, tokenTTL time.Duration, successPage string) *Handler {
	return &Handler{
		users:         users,
		participants:  participants,
		payments:      payments,
		uploads:       uploads,
		queue:         q,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
		tokenTTL:      tokenTTL,
		successPage:   successPage,
	}
}

// Register wires all routes onto the engine. adminOnly guards destructive
// endpoints.
func (h *Handler) Register(r *gin.Engine, adminOnly gin.HandlerFunc) {
	// users
	r.POST("/user", h.CreateUser)
	r.GET("/user", h.ListUsers)
	r.GET("/user/:email", h.GetUser)
	r.PUT("/user/:email", h.UpsertUser)
	r.DELETE("/user/:id", adminOnly, h.DeleteUser)

	// participants
	r.POST("/participant", h.CreateParticipant)
	r.PUT("/participant/:id", h.UpdateParticipant)
	r.GET("/participant/:id", h.GetParticipant)
	r.DELETE("/delete-participant/:id", adminOnly, h.DeleteParticipant)

	// queries and aggregates
	r.GET("/allParticipant", h.ListParticipants)
	r.GET("/totalParticipant", h.CountParticipants)
	r.GET("/allSscYears", h.YearCounts(""))
	r.GET("/allSscYears/paid", h.YearCounts(registration.StatusPaid))
	r.GET("/allSscYears/unpaid", h.YearCounts(registration.StatusUnpaid))
	r.GET("/status-summary", h.StatusSummary)
	r.GET("/filtered/registration", h.FilteredRegistrations)
	r.GET("/view-batch", h.ViewBatch)
	r.GET("/participants/search", h.SearchParticipants)

	// payments
	r.POST("/create-payment", h.CreatePayment)
	r.GET("/success-payment", h.SuccessPayment)
	r.GET("/payment/:paymentID", h.GetPayment)

	// uploads
	r.POST("/upload", h.Upload)
}
