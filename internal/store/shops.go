package store

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// PayoutDate is a date-only timestamp. The zero value means the shop has
// never paid out.
type PayoutDate struct {
	time.Time
}

func (d PayoutDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(strconv.Quote(d.Format("2006-01-02"))), nil
}

func (d *PayoutDate) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type Shop struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CommissionC float64    `json:"commissionC"`
	PaymentIDs  []int64    `json:"payments"`
	LastPayout  PayoutDate `json:"lastPayout"`
}

// ShopsStore keeps shops in memory. The mutex also guards the id sequence,
// so ids stay strictly monotonic under concurrent registration.
type ShopsStore struct {
	mu    sync.Mutex
	seq   int64
	shops map[int64]*Shop
}

func NewShopsStore() *ShopsStore {
	return &ShopsStore{shops: make(map[int64]*Shop)}
}

func (s *ShopsStore) Create(_ context.Context, name string, commissionC float64) *Shop {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	shop := &Shop{
		ID:          s.seq,
		Name:        name,
		CommissionC: commissionC,
		PaymentIDs:  []int64{},
	}
	s.shops[shop.ID] = shop
	return snapshotShop(shop)
}

func (s *ShopsStore) GetByID(_ context.Context, id int64) (*Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.shops[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshotShop(shop), nil
}

func (s *ShopsStore) AppendPayment(_ context.Context, shopID, paymentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.shops[shopID]
	if !ok {
		return ErrNotFound
	}
	shop.PaymentIDs = append(shop.PaymentIDs, paymentID)
	return nil
}

func (s *ShopsStore) SetLastPayout(_ context.Context, shopID int64, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shop, ok := s.shops[shopID]
	if !ok {
		return ErrNotFound
	}
	shop.LastPayout = PayoutDate{day}
	return nil
}

// snapshotShop copies the record so callers never hold a reference into the
// store's mutable state.
func snapshotShop(shop *Shop) *Shop {
	cp := *shop
	cp.PaymentIDs = append([]int64(nil), shop.PaymentIDs...)
	return &cp
}
