package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("resource not found")
)

// Storage bundles the in-memory stores behind narrow interfaces so the
// gateway service and the tests can swap implementations independently.
type Storage struct {
	Shops interface {
		Create(context.Context, string, float64) *Shop
		GetByID(context.Context, int64) (*Shop, error)
		AppendPayment(ctx context.Context, shopID, paymentID int64) error
		SetLastPayout(ctx context.Context, shopID int64, day time.Time) error
	}
	Payments interface {
		Create(ctx context.Context, shopID int64, amount, blockedAmount float64) *Payment
		GetByID(context.Context, int64) (*Payment, error)
		List(context.Context) []Payment
		Transition(ctx context.Context, ids []int64, from, to Status) []TransitionResult
	}
	Settings interface {
		Get(context.Context) Settings
		Update(context.Context, Settings) Settings
	}
}

func NewStorage() Storage {
	return Storage{
		Shops:    NewShopsStore(),
		Payments: NewPaymentsStore(),
		Settings: NewSettingsStore(),
	}
}
