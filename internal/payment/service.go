package payment

import (
	"context"
	"errors"

	"registration/internal/registration"
)

// Fees holds the per-unit amounts the total is computed from.
type Fees struct {
	Base          int
	DriverDay     int
	FamilyMember  int
	ChildDiscount int
}

// DriverDays maps the registration driver enum to chargeable days.
func DriverDays(driver string) int {
	switch driver {
	case registration.DriverOneDay:
		return 1
	case registration.DriverTwoDays:
		return 2
	}
	return 0
}

// Total computes base + driver fee + family fee minus the per-child discount.
func (f Fees) Total(driver string, familyMembers, children int) int {
	total := f.Base + DriverDays(driver)*f.DriverDay + familyMembers*f.FamilyMember
	if children > 0 {
		total -= children * f.ChildDiscount
	}
	return total
}

// ErrAlreadyPaid rejects invoice creation for a participant whose payment
// has already completed.
var ErrAlreadyPaid = errors.New("participant already paid")

// ParticipantStore is the slice of the registration store the payment flow
// touches. registration.Repository satisfies it.
type ParticipantStore interface {
	FindByID(ctx context.Context, id string) (*registration.Participant, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*registration.Participant, error)
	SetPayment(ctx context.Context, id, paymentID string, amount, totalFee int) error
	MarkPaid(ctx context.Context, paymentID string) (bool, error)
}

// Service drives the Unpaid -> Paid state machine against the provider.
type Service struct {
	client     *Client
	store      ParticipantStore
	fees       Fees
	successURL string
	cancelURL  string
}

// NewService creates a payment service.
func NewService(client *Client, store ParticipantStore, fees Fees, successURL, cancelURL string) *Service {
	return &Service{client: client, store: store, fees: fees, successURL: successURL, cancelURL: cancelURL}
}

// CreateInvoice computes the participant's total, creates a provider invoice
// and persists the payment id and quoted amount. Status stays Unpaid.
func (s *Service) CreateInvoice(ctx context.Context, participantID string) (registration.Participant, *Invoice, error) {
	p, err := s.store.FindByID(ctx, participantID)
	if err != nil {
		return registration.Participant{}, nil, err
	}
	if p == nil {
		return registration.Participant{}, nil, registration.ErrNotFound
	}
	if p.Status == registration.StatusPaid {
		return *p, nil, ErrAlreadyPaid
	}

	total := s.fees.Total(p.Driver, p.FamilyMembers, p.Children)
	inv, err := s.client.CreateInvoice(ctx, InvoiceRequest{
		Reference:  p.ID,
		Name:       p.NameEnglish,
		Phone:      p.Phone,
		Amount:     total,
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return *p, nil, err
	}

	if err := s.store.SetPayment(ctx, p.ID, inv.PaymentID, inv.Amount, total); err != nil {
		return *p, nil, err
	}
	p.PaymentID = inv.PaymentID
	p.PaidAmount = inv.Amount
	p.TotalFee = total
	return *p, inv, nil
}

// Complete resolves a provider success callback to its participant and flips
// status to Paid. The transition happens exactly once: replaying the same
// callback returns the participant with completed=false and changes nothing.
func (s *Service) Complete(ctx context.Context, paymentID string) (registration.Participant, bool, error) {
	p, err := s.store.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return registration.Participant{}, false, err
	}
	if p == nil {
		return registration.Participant{}, false, registration.ErrNotFound
	}
	if p.Status == registration.StatusPaid {
		return *p, false, nil
	}

	completed, err := s.store.MarkPaid(ctx, paymentID)
	if err != nil {
		return registration.Participant{}, false, err
	}
	if completed {
		p.Status = registration.StatusPaid
	}
	return *p, completed, nil
}
