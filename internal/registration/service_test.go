package registration

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"01712345678":       "01712345678",
		"017 1234 5678":     "01712345678",
		"017-1234-5678":     "01712345678",
		"(017) 1234-5678":   "01712345678",
		"+880 1712-345678":  "+8801712345678",
		" 017\t1234 5678 ":  "01712345678",
		"(0 1)7-12 34-5678": "01712345678",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePhone(in), "input %q", in)
	}

	// normalization is idempotent
	for in := range cases {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once))
	}
}

func TestRegister_AssignsUniqueID(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	p, err := svc.Register(ctx, Participant{Phone: "017 1111 1111", NameEnglish: "Jane Doe"})
	require.NoError(t, err)
	assert.Len(t, p.ID, 6)
	assert.Equal(t, StatusUnpaid, p.Status)
	assert.Equal(t, "01711111111", p.Phone)
}

func TestRegister_RejectsDuplicatePhone(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	first, err := svc.Register(ctx, Participant{Phone: "01712345678", NameEnglish: "Jane Doe"})
	require.NoError(t, err)

	// same number spelled with punctuation is the same identity
	_, err = svc.Register(ctx, Participant{Phone: "017-1234-5678", NameEnglish: "J. Doe"})
	var dup *DuplicatePhoneError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.Existing.ID)
}

func TestRegister_ConcurrentInsertsNeverCollide(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.Register(ctx, Participant{Phone: "0171" + strconv.Itoa(i)})
			if err != nil {
				t.Errorf("register %d: %v", i, err)
				return
			}
			ids <- p.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

// collidingStore reports every candidate id as taken, forcing allocator
// exhaustion.
type collidingStore struct {
	*MemoryStore
}

func (c *collidingStore) FindByID(ctx context.Context, id string) (*Participant, error) {
	return &Participant{ID: id}, nil
}

func TestRegister_BoundedIDRetries(t *testing.T) {
	svc := NewService(&collidingStore{NewMemoryStore()})
	_, err := svc.Register(context.Background(), Participant{Phone: "01700000000"})
	require.ErrorIs(t, err, ErrIDSpaceExhausted)
}

func TestList_PaginationDescendingInsertionOrder(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	var inserted []Participant
	for i := 0; i < 25; i++ {
		p, err := svc.Register(ctx, Participant{Phone: "0172" + strconv.Itoa(i), NameEnglish: "P" + strconv.Itoa(i)})
		require.NoError(t, err)
		inserted = append(inserted, p)
	}

	page0, err := svc.List(ctx, Filter{Paginate: true, Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, page0, 10)
	for i := range page0 {
		assert.Equal(t, inserted[24-i].ID, page0[i].ID)
	}

	page1, err := svc.List(ctx, Filter{Paginate: true, Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page1, 10)
	assert.Equal(t, inserted[14].ID, page1[0].ID)

	page2, err := svc.List(ctx, Filter{Paginate: true, Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page2, 5)
}

func TestList_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, Participant{Phone: "01733333333", NameEnglish: "Jane Doe"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, Participant{Phone: "01744444444", NameEnglish: "John Smith"})
	require.NoError(t, err)

	got, err := svc.List(ctx, Filter{Search: "jane"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane Doe", got[0].NameEnglish)

	got, err = svc.List(ctx, Filter{Search: "OhN"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "John Smith", got[0].NameEnglish)
}

func TestYearCountsAndBatchFilter(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	for i, year := range []string{"1995", "1995", "2001"} {
		p, err := svc.Register(ctx, Participant{Phone: "0175" + strconv.Itoa(i), SSCYear: year})
		require.NoError(t, err)
		if i == 0 {
			require.NoError(t, store.SetPayment(ctx, p.ID, "INV1", 1000, 1000))
			_, err = store.MarkPaid(ctx, "INV1")
			require.NoError(t, err)
		}
	}

	all, err := svc.YearCounts(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []YearCount{{SSCYear: "2001", Count: 1}, {SSCYear: "1995", Count: 2}}, all)

	paid, err := svc.YearCounts(ctx, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, []YearCount{{SSCYear: "1995", Count: 1}}, paid)

	batch, err := svc.List(ctx, Filter{Batch: "1995"})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
}

func TestSummarize_PaidSubsetOnly(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	paid, err := svc.Register(ctx, Participant{
		Phone: "01761111111", FamilyMembers: 2, Children: 1,
		Driver: DriverTwoDays, TshirtSize: "L", Religion: "Islam",
	})
	require.NoError(t, err)
	require.NoError(t, store.SetPayment(ctx, paid.ID, "INV9", 2500, 2500))
	_, err = store.MarkPaid(ctx, "INV9")
	require.NoError(t, err)

	// unpaid record must not contribute
	_, err = svc.Register(ctx, Participant{Phone: "01762222222", FamilyMembers: 5})
	require.NoError(t, err)

	sum, err := svc.Summarize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Participants)
	assert.Equal(t, 2, sum.FamilyMembers)
	assert.Equal(t, 1, sum.Children)
	assert.Equal(t, 3, sum.Guests)
	assert.Equal(t, 2500, sum.TotalFee)
	assert.Equal(t, map[string]int{DriverTwoDays: 1}, sum.DriverDays)
	assert.Equal(t, map[string]int{"L": 1}, sum.TshirtSizes)
	assert.Equal(t, map[string]int{"Islam": 1}, sum.Religions)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	p, err := svc.Register(ctx, Participant{Phone: "01771111111", NameEnglish: "Old Name"})
	require.NoError(t, err)

	name := "New Name"
	require.NoError(t, svc.Update(ctx, p.ID, Update{NameEnglish: &name}))
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.NameEnglish)

	// empty update is a no-op, not an error
	require.NoError(t, svc.Update(ctx, p.ID, Update{}))

	assert.ErrorIs(t, svc.Update(ctx, "ffffff", Update{NameEnglish: &name}), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}
