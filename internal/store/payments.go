package store

import (
	"context"
	"sync"
)

// Status is the lifecycle state of a payment. Payments only ever move
// forward: accepted -> processed -> completed -> withdrawn.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusProcessed Status = "processed"
	StatusCompleted Status = "completed"
	StatusWithdrawn Status = "withdrawn"
)

type Payment struct {
	ID            int64   `json:"id"`
	ShopID        int64   `json:"shopId"`
	Amount        float64 `json:"amount"`
	Status        Status  `json:"status"`
	BlockedAmount float64 `json:"blockedAmount"`
}

// TransitionResult records what happened to one id during a bulk transition.
// Applied is false when the payment was missing or not in the expected
// status; such ids are skipped, never failed.
type TransitionResult struct {
	ID      int64  `json:"id"`
	From    Status `json:"from,omitempty"`
	Applied bool   `json:"applied"`
}

type PaymentsStore struct {
	mu       sync.Mutex
	seq      int64
	payments map[int64]*Payment
	order    []int64
}

func NewPaymentsStore() *PaymentsStore {
	return &PaymentsStore{payments: make(map[int64]*Payment)}
}

func (s *PaymentsStore) Create(_ context.Context, shopID int64, amount, blockedAmount float64) *Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	p := &Payment{
		ID:            s.seq,
		ShopID:        shopID,
		Amount:        amount,
		Status:        StatusAccepted,
		BlockedAmount: blockedAmount,
	}
	s.payments[p.ID] = p
	s.order = append(s.order, p.ID)
	return snapshotPayment(p)
}

func (s *PaymentsStore) GetByID(_ context.Context, id int64) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return snapshotPayment(p), nil
}

// List returns all payments in creation order.
func (s *PaymentsStore) List(_ context.Context) []Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Payment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.payments[id])
	}
	return out
}

// Transition moves every listed payment from one status to the next, as a
// compare-and-swap under the store lock. Ids that are missing or not in the
// expected status are reported with Applied=false and left untouched.
func (s *PaymentsStore) Transition(_ context.Context, ids []int64, from, to Status) []TransitionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]TransitionResult, 0, len(ids))
	for _, id := range ids {
		p, ok := s.payments[id]
		if !ok {
			results = append(results, TransitionResult{ID: id})
			continue
		}
		if p.Status != from {
			results = append(results, TransitionResult{ID: id, From: p.Status})
			continue
		}
		p.Status = to
		results = append(results, TransitionResult{ID: id, From: from, Applied: true})
	}
	return results
}

func snapshotPayment(p *Payment) *Payment {
	cp := *p
	return &cp
}
