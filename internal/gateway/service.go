package gateway

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"paygate/internal/metrics"
	"paygate/internal/store"
)

// Service implements the gateway operations over an injected store. All
// lifecycle and settlement rules live here; the HTTP layer only decodes
// requests and classifies errors.
type Service struct {
	store    store.Storage
	logger   *zap.SugaredLogger
	metrics  *metrics.GatewayMetrics
	receipts *ReceiptGenerator

	// now is swapped out in tests to control the payout cooldown clock.
	now func() time.Time
}

func New(st store.Storage, logger *zap.SugaredLogger, m *metrics.GatewayMetrics, receipts *ReceiptGenerator) *Service {
	return &Service{
		store:    st,
		logger:   logger,
		metrics:  m,
		receipts: receipts,
		now:      time.Now,
	}
}

// UpdateSettings replaces the gateway-wide commission rates and block-sum
// percentage. Later withdrawals use the values in effect at withdrawal time.
func (s *Service) UpdateSettings(ctx context.Context, commissionA, commissionB, blockSum float64) (store.Settings, error) {
	if !IsPositiveNumber(commissionA) || !IsPositiveNumber(commissionB) || !IsPositiveNumber(blockSum) {
		s.metrics.RecordError("update_settings", "validation")
		return store.Settings{}, fmt.Errorf("%w: commissions and block sum must be positive numbers", ErrValidation)
	}

	stored := s.store.Settings.Update(ctx, store.Settings{
		CommissionA: commissionA,
		CommissionB: commissionB,
		BlockSum:    blockSum,
	})

	s.logger.Infow("gateway settings updated",
		"commission_a", stored.CommissionA,
		"commission_b", stored.CommissionB,
		"block_sum", stored.BlockSum,
	)
	return stored, nil
}

// RegisterShop creates a shop with an empty payment list and no payout
// history.
func (s *Service) RegisterShop(ctx context.Context, name string, commissionC float64) (*store.Shop, error) {
	if IsBlank(name) {
		s.metrics.RecordError("register_shop", "validation")
		return nil, fmt.Errorf("%w: shop name must not be empty", ErrValidation)
	}
	if !IsPositiveNumber(commissionC) {
		s.metrics.RecordError("register_shop", "validation")
		return nil, fmt.Errorf("%w: shop commission must be a positive number", ErrValidation)
	}

	shop := s.store.Shops.Create(ctx, name, commissionC)
	s.metrics.RecordShopRegistered()

	s.logger.Infow("shop registered", "shop_id", shop.ID, "name", shop.Name)
	return shop, nil
}

// GetShop returns a shop together with the payments it has accepted, in
// acceptance order.
func (s *Service) GetShop(ctx context.Context, shopID int64) (*store.Shop, []store.Payment, error) {
	shop, err := s.store.Shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}

	payments := make([]store.Payment, 0, len(shop.PaymentIDs))
	for _, id := range shop.PaymentIDs {
		p, err := s.store.Payments.GetByID(ctx, id)
		if err != nil {
			continue
		}
		payments = append(payments, *p)
	}
	return shop, payments, nil
}

// AcceptPayment records a customer payment for a shop. The blocked amount is
// derived from the block-sum percentage in effect right now, not at any
// later lifecycle step.
func (s *Service) AcceptPayment(ctx context.Context, shopID int64, amount float64) (*store.Payment, error) {
	if shopID <= 0 || !IsPositiveNumber(amount) {
		s.metrics.RecordError("accept_payment", "validation")
		return nil, fmt.Errorf("%w: shop id and amount must be positive numbers", ErrValidation)
	}

	if _, err := s.store.Shops.GetByID(ctx, shopID); err != nil {
		s.metrics.RecordError("accept_payment", "not_found")
		return nil, err
	}

	settings := s.store.Settings.Get(ctx)
	blocked := settings.BlockSum / 100 * amount

	payment := s.store.Payments.Create(ctx, shopID, amount, blocked)
	if err := s.store.Shops.AppendPayment(ctx, shopID, payment.ID); err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentAccepted(shopID, amount, blocked)
	s.logger.Infow("payment accepted",
		"payment_id", payment.ID,
		"shop_id", shopID,
		"amount", amount,
		"blocked_amount", blocked,
	)
	return payment, nil
}

// ProcessPayments moves the listed payments from accepted to processed.
func (s *Service) ProcessPayments(ctx context.Context, paymentIDs []int64) ([]store.TransitionResult, error) {
	return s.transition(ctx, "process_payments", paymentIDs, store.StatusAccepted, store.StatusProcessed)
}

// CompletePayments moves the listed payments from processed to completed.
func (s *Service) CompletePayments(ctx context.Context, paymentIDs []int64) ([]store.TransitionResult, error) {
	return s.transition(ctx, "complete_payments", paymentIDs, store.StatusProcessed, store.StatusCompleted)
}

// ListPayments returns a snapshot of every payment in acceptance order.
func (s *Service) ListPayments(ctx context.Context) []store.Payment {
	return s.store.Payments.List(ctx)
}

func (s *Service) transition(ctx context.Context, operation string, paymentIDs []int64, from, to store.Status) ([]store.TransitionResult, error) {
	if !ValidatePaymentIDs(paymentIDs) {
		s.metrics.RecordError(operation, "validation")
		return nil, fmt.Errorf("%w: payment id list contains a non-positive id", ErrValidation)
	}

	results := s.store.Payments.Transition(ctx, paymentIDs, from, to)

	applied, skipped := 0, 0
	for _, res := range results {
		if res.Applied {
			applied++
		} else {
			skipped++
		}
	}
	s.metrics.RecordTransitions(string(from), string(to), applied, skipped)

	s.logger.Infow("payments transitioned",
		"from", from,
		"to", to,
		"applied", applied,
		"skipped", skipped,
	)
	return results, nil
}

// WithdrawnPayment is one settled payment inside a withdrawal statement; its
// amount is the net credited to the shop after all commissions.
type WithdrawnPayment struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"amount"`
}

// WithdrawalStatement is the outcome of a withdrawal call. A statement with
// no payments is still a success; it just means nothing was in completed
// status.
type WithdrawalStatement struct {
	TotalPayment float64            `json:"totalPayment"`
	Payments     []WithdrawnPayment `json:"payments"`
	LastPayout   store.PayoutDate   `json:"lastPayout"`
	Receipt      string             `json:"receipt,omitempty"`
}

// Withdraw settles every completed payment of the shop: each one is charged
// the flat commission A, the percentage commission B and the shop's own
// commission C, marked withdrawn, and the remainder accumulated into the
// statement. The net amount may come out negative and is passed through
// as-is. The shop's last payout date advances only when at least one payment
// was actually withdrawn, and a shop can withdraw at most once per calendar
// day.
func (s *Service) Withdraw(ctx context.Context, shopID int64) (*WithdrawalStatement, error) {
	if shopID <= 0 {
		s.metrics.RecordError("withdraw", "validation")
		return nil, fmt.Errorf("%w: shop id must be a positive number", ErrValidation)
	}

	shop, err := s.store.Shops.GetByID(ctx, shopID)
	if err != nil {
		s.metrics.RecordError("withdraw", "not_found")
		return nil, err
	}

	now := s.now()
	if !PayoutDateElapsed(shop.LastPayout.Time, now) {
		s.metrics.RecordCooldownRejection(shopID)
		return nil, fmt.Errorf("%w: last payout was %s", ErrPayoutCooldown, shop.LastPayout.Format("2006-01-02"))
	}

	settings := s.store.Settings.Get(ctx)

	statement := &WithdrawalStatement{
		Payments:   []WithdrawnPayment{},
		LastPayout: shop.LastPayout,
	}
	feeTotal := 0.0

	for _, paymentID := range shop.PaymentIDs {
		payment, err := s.store.Payments.GetByID(ctx, paymentID)
		if err != nil {
			continue
		}
		if payment.Status != store.StatusCompleted {
			continue
		}

		// Compare-and-swap so a concurrent withdrawal cannot settle the
		// same payment twice.
		results := s.store.Payments.Transition(ctx, []int64{paymentID}, store.StatusCompleted, store.StatusWithdrawn)
		if len(results) == 0 || !results[0].Applied {
			continue
		}

		fee := settings.CommissionA +
			settings.CommissionB/100*payment.Amount +
			shop.CommissionC/100*payment.Amount
		net := payment.Amount - fee

		statement.TotalPayment += net
		feeTotal += fee
		statement.Payments = append(statement.Payments, WithdrawnPayment{ID: paymentID, Amount: net})
	}

	if len(statement.Payments) > 0 {
		today := dateOnly(now)
		if err := s.store.Shops.SetLastPayout(ctx, shopID, today); err != nil {
			return nil, err
		}
		statement.LastPayout = store.PayoutDate{Time: today}
		statement.Receipt = s.receipts.Generate(shopID)

		s.metrics.RecordWithdrawal(shopID, statement.TotalPayment, feeTotal, len(statement.Payments))
	}

	s.logger.Infow("withdrawal settled",
		"shop_id", shopID,
		"payments", len(statement.Payments),
		"total_payment", statement.TotalPayment,
	)
	return statement, nil
}
