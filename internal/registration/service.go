package registration

import (
	"context"
	"errors"
)

// maxIDAttempts bounds the allocate-check-insert loop. Exhausting it means
// the keyspace is saturated and registration should fail loudly instead of
// spinning.
const maxIDAttempts = 10

// Service coordinates participant registration, lookups and aggregation.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register normalizes the phone, rejects duplicates, allocates a unique
// participant id and inserts the record with status Unpaid.
func (s *Service) Register(ctx context.Context, p Participant) (Participant, error) {
	p.Phone = NormalizePhone(p.Phone)
	if p.Phone == "" {
		return Participant{}, errors.New("phone required")
	}

	if existing, err := s.store.FindByPhone(ctx, p.Phone); err != nil {
		return Participant{}, err
	} else if existing != nil {
		return Participant{}, &DuplicatePhoneError{Existing: *existing}
	}

	p.Status = StatusUnpaid
	p.PaymentID = ""
	p.PaidAmount = 0

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := newParticipantID()
		if err != nil {
			return Participant{}, err
		}
		if taken, err := s.store.FindByID(ctx, id); err != nil {
			return Participant{}, err
		} else if taken != nil {
			continue
		}

		p.ID = id
		inserted, err := s.store.Insert(ctx, p)
		if errors.Is(err, ErrIDTaken) {
			// Lost the race against a concurrent insert; pick a new id.
			continue
		}
		if err != nil {
			return Participant{}, err
		}
		return inserted, nil
	}
	return Participant{}, ErrIDSpaceExhausted
}

// Get returns a participant by id.
func (s *Service) Get(ctx context.Context, id string) (Participant, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return Participant{}, err
	}
	if p == nil {
		return Participant{}, ErrNotFound
	}
	return *p, nil
}

// GetByPaymentID returns the participant holding a provider payment id.
func (s *Service) GetByPaymentID(ctx context.Context, paymentID string) (Participant, error) {
	p, err := s.store.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return Participant{}, err
	}
	if p == nil {
		return Participant{}, ErrNotFound
	}
	return *p, nil
}

// Update applies a partial update. It returns ErrNotFound when no record
// matches and reports whether any field was actually given.
func (s *Service) Update(ctx context.Context, id string, upd Update) error {
	if upd.Empty() {
		return nil
	}
	matched, err := s.store.Update(ctx, id, upd)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// Delete removes a participant by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	matched, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// List returns participants matching the filter in descending insertion
// order.
func (s *Service) List(ctx context.Context, f Filter) ([]Participant, error) {
	if f.Paginate {
		if f.Size <= 0 {
			f.Size = 10
		}
		if f.Page < 0 {
			f.Page = 0
		}
	}
	return s.store.List(ctx, f)
}

// Count returns how many participants match the filter.
func (s *Service) Count(ctx context.Context, f Filter) (int, error) {
	return s.store.Count(ctx, f)
}

// YearCounts groups registrations by ssc_year, optionally restricted to one
// payment status.
func (s *Service) YearCounts(ctx context.Context, status string) ([]YearCount, error) {
	return s.store.YearCounts(ctx, status)
}

// Summarize reduces the paid subset to derived totals. Recomputed on every
// call.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	paid, err := s.store.List(ctx, Filter{Status: StatusPaid})
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		DriverDays:  make(map[string]int),
		TshirtSizes: make(map[string]int),
		Religions:   make(map[string]int),
	}
	for _, p := range paid {
		sum.Participants++
		sum.FamilyMembers += p.FamilyMembers
		sum.Children += p.Children
		sum.Guests += p.FamilyMembers + p.Children
		sum.TotalFee += p.TotalFee
		if p.Driver != DriverNone {
			sum.DriverDays[p.Driver]++
		}
		if p.TshirtSize != "" {
			sum.TshirtSizes[p.TshirtSize]++
		}
		if p.Religion != "" {
			sum.Religions[p.Religion]++
		}
	}
	return sum, nil
}
