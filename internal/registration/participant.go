package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Payment status values for a participant.
const (
	StatusUnpaid = "Unpaid"
	StatusPaid   = "Paid"
)

// Driver enum values accepted on registration forms.
const (
	DriverNone    = ""
	DriverOneDay  = "Driver for 1 day"
	DriverTwoDays = "Driver for 2 days"
)

// Participant is a registrant record for the event.
type Participant struct {
	ID            string    `json:"participantId"`
	Phone         string    `json:"phone"`
	NameEnglish   string    `json:"name_english"`
	SSCYear       string    `json:"ssc_year"`
	TshirtSize    string    `json:"tshirt_size"`
	FamilyMembers int       `json:"family_members"`
	Children      int       `json:"children"`
	Driver        string    `json:"driver"`
	Religion      string    `json:"religion"`
	Status        string    `json:"status"`
	PaymentID     string    `json:"paymentID,omitempty"`
	PaidAmount    int       `json:"paidAmount,omitempty"`
	TotalFee      int       `json:"total_fee,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Update carries partial field changes for a participant. Nil pointers leave
// the stored value untouched.
type Update struct {
	NameEnglish   *string
	SSCYear       *string
	TshirtSize    *string
	FamilyMembers *int
	Children      *int
	Driver        *string
	Religion      *string
}

// Empty reports whether the update would change nothing.
func (u Update) Empty() bool {
	return u.NameEnglish == nil && u.SSCYear == nil && u.TshirtSize == nil &&
		u.FamilyMembers == nil && u.Children == nil && u.Driver == nil && u.Religion == nil
}

// Filter narrows list and count queries. Search matches name_english as a
// case-insensitive substring. Batch and Status are exact matches when set.
type Filter struct {
	Search string
	Batch  string
	Status string

	// Paginate switches List to a page window ordered by descending
	// insertion order. Page is zero-based.
	Paginate bool
	Page     int
	Size     int
}

// YearCount is a per-batch registration count.
type YearCount struct {
	SSCYear string `json:"ssc_year"`
	Count   int    `json:"count"`
}

// Summary holds derived totals over the paid subset of participants.
type Summary struct {
	Participants  int            `json:"participants"`
	Guests        int            `json:"guests"`
	FamilyMembers int            `json:"family_members"`
	Children      int            `json:"children"`
	TotalFee      int            `json:"total_fee"`
	DriverDays    map[string]int `json:"driver_days"`
	TshirtSizes   map[string]int `json:"tshirt_sizes"`
	Religions     map[string]int `json:"religions"`
}

// ErrNotFound is returned when no participant matches a lookup.
var ErrNotFound = errors.New("participant not found")

// ErrIDTaken is returned by Store.Insert when the generated participant id
// collides with an existing record. The service retries on it.
var ErrIDTaken = errors.New("participant id already taken")

// DuplicatePhoneError rejects a registration whose normalized phone is
// already registered.
type DuplicatePhoneError struct {
	Existing Participant
}

func (e *DuplicatePhoneError) Error() string {
	return fmt.Sprintf("phone %s already registered as participant %s", e.Existing.Phone, e.Existing.ID)
}

// Store persists participant records with unique-key semantics on both the
// participant id and the normalized phone.
type Store interface {
	FindByID(ctx context.Context, id string) (*Participant, error)
	FindByPhone(ctx context.Context, phone string) (*Participant, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*Participant, error)
	Insert(ctx context.Context, p Participant) (Participant, error)
	Update(ctx context.Context, id string, upd Update) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f Filter) ([]Participant, error)
	Count(ctx context.Context, f Filter) (int, error)
	YearCounts(ctx context.Context, status string) ([]YearCount, error)
	SetPayment(ctx context.Context, id, paymentID string, amount, totalFee int) error
	MarkPaid(ctx context.Context, paymentID string) (bool, error)
}

// NormalizePhone strips whitespace, hyphens and parentheses so numbers that
// differ only in punctuation map to the same identity.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}
