package registration

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-memory Store for dev/testing, mirroring
// the Postgres repository's uniqueness and ordering semantics.
type MemoryStore struct {
	mu      sync.Mutex
	records []Participant // insertion order
	byID    map[string]int
	byPhone map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]int),
		byPhone: make(map[string]int),
	}
}

func (m *MemoryStore) find(idx map[string]int, key string) *Participant {
	if i, ok := idx[key]; ok {
		p := m.records[i]
		return &p
	}
	return nil
}

// FindByID returns a participant by id, or nil when absent.
func (m *MemoryStore) FindByID(ctx context.Context, id string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(m.byID, id), nil
}

// FindByPhone returns a participant by phone, or nil when absent.
func (m *MemoryStore) FindByPhone(ctx context.Context, phone string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(m.byPhone, phone), nil
}

// FindByPaymentID returns the participant holding a payment id.
func (m *MemoryStore) FindByPaymentID(ctx context.Context, paymentID string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if paymentID == "" {
		return nil, nil
	}
	for i := range m.records {
		if m.records[i].PaymentID == paymentID {
			p := m.records[i]
			return &p, nil
		}
	}
	return nil, nil
}

// Insert appends a record, enforcing both unique keys atomically.
func (m *MemoryStore) Insert(ctx context.Context, p Participant) (Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[p.ID]; ok {
		return Participant{}, ErrIDTaken
	}
	if i, ok := m.byPhone[p.Phone]; ok {
		return Participant{}, &DuplicatePhoneError{Existing: m.records[i]}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.byID[p.ID] = len(m.records)
	m.byPhone[p.Phone] = len(m.records)
	m.records = append(m.records, p)
	return p, nil
}

// Update applies non-nil fields and reports whether a record matched.
func (m *MemoryStore) Update(ctx context.Context, id string, upd Update) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	p := &m.records[i]
	if upd.NameEnglish != nil {
		p.NameEnglish = *upd.NameEnglish
	}
	if upd.SSCYear != nil {
		p.SSCYear = *upd.SSCYear
	}
	if upd.TshirtSize != nil {
		p.TshirtSize = *upd.TshirtSize
	}
	if upd.FamilyMembers != nil {
		p.FamilyMembers = *upd.FamilyMembers
	}
	if upd.Children != nil {
		p.Children = *upd.Children
	}
	if upd.Driver != nil {
		p.Driver = *upd.Driver
	}
	if upd.Religion != nil {
		p.Religion = *upd.Religion
	}
	return true, nil
}

// Delete removes a record and reports whether one matched.
func (m *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	delete(m.byPhone, m.records[i].Phone)
	delete(m.byID, id)
	m.records = append(m.records[:i], m.records[i+1:]...)
	// reindex the tail
	for j := i; j < len(m.records); j++ {
		m.byID[m.records[j].ID] = j
		m.byPhone[m.records[j].Phone] = j
	}
	return true, nil
}

func matches(p Participant, f Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.NameEnglish), strings.ToLower(f.Search)) {
		return false
	}
	if f.Batch != "" && p.SSCYear != f.Batch {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

// List returns matching records, newest insertion first.
func (m *MemoryStore) List(ctx context.Context, f Filter) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Participant
	for i := len(m.records) - 1; i >= 0; i-- {
		if matches(m.records[i], f) {
			out = append(out, m.records[i])
		}
	}
	if f.Paginate {
		start := f.Page * f.Size
		if start >= len(out) {
			return nil, nil
		}
		end := start + f.Size
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

// Count returns how many records match the filter.
func (m *MemoryStore) Count(ctx context.Context, f Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.records {
		if matches(m.records[i], f) {
			n++
		}
	}
	return n, nil
}

// YearCounts groups records by ssc_year, newest year first.
func (m *MemoryStore) YearCounts(ctx context.Context, status string) ([]YearCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for i := range m.records {
		if status == "" || m.records[i].Status == status {
			counts[m.records[i].SSCYear]++
		}
	}
	years := make([]string, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	out := make([]YearCount, 0, len(years))
	for _, y := range years {
		out = append(out, YearCount{SSCYear: y, Count: counts[y]})
	}
	return out, nil
}

// SetPayment stores the provider invoice on a record.
func (m *MemoryStore) SetPayment(ctx context.Context, id, paymentID string, amount, totalFee int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.byID[id]; ok {
		m.records[i].PaymentID = paymentID
		m.records[i].PaidAmount = amount
		m.records[i].TotalFee = totalFee
	}
	return nil
}

// MarkPaid flips an Unpaid record holding paymentID to Paid.
func (m *MemoryStore) MarkPaid(ctx context.Context, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].PaymentID == paymentID && m.records[i].Status == StatusUnpaid {
			m.records[i].Status = StatusPaid
			return true, nil
		}
	}
	return false, nil
}
