package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics carries the prometheus instruments for the payment
// lifecycle. A Registerer is injected so tests can use private registries.
type GatewayMetrics struct {
	ShopsRegisteredTotal prometheus.Counter

	PaymentsAcceptedTotal       *prometheus.CounterVec
	PaymentsAcceptedAmountTotal *prometheus.CounterVec
	BlockedAmountTotal          *prometheus.CounterVec

	TransitionsAppliedTotal *prometheus.CounterVec
	TransitionsSkippedTotal *prometheus.CounterVec

	WithdrawalsTotal        *prometheus.CounterVec
	WithdrawnAmountTotal    *prometheus.CounterVec
	CommissionFeeTotal      *prometheus.CounterVec
	WithdrawnPaymentsTotal  *prometheus.CounterVec
	WithdrawalCooldownTotal *prometheus.CounterVec

	GatewayErrorsTotal *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)

	return &GatewayMetrics{
		ShopsRegisteredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "shops_registered_total",
			Help: "Total number of registered shops",
		}),

		PaymentsAcceptedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_accepted_total",
			Help: "Total number of accepted payments",
		}, []string{"shop_id"}),

		PaymentsAcceptedAmountTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_accepted_amount_total",
			Help: "Total amount of accepted payments",
		}, []string{"shop_id"}),

		BlockedAmountTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_blocked_amount_total",
			Help: "Total amount withheld at acceptance",
		}, []string{"shop_id"}),

		TransitionsAppliedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_transitions_applied_total",
			Help: "Bulk status transitions that changed a payment",
		}, []string{"from", "to"}),

		TransitionsSkippedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_transitions_skipped_total",
			Help: "Bulk transition ids skipped because the payment was missing or in another status",
		}, []string{"to"}),

		WithdrawalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawals_total",
			Help: "Total number of successful withdrawal calls",
		}, []string{"shop_id"}),

		WithdrawnAmountTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawn_amount_total",
			Help: "Total net amount paid out to shops",
		}, []string{"shop_id"}),

		CommissionFeeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "commission_fee_total",
			Help: "Total commission retained across withdrawals",
		}, []string{"shop_id"}),

		WithdrawnPaymentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawn_payments_total",
			Help: "Total number of payments settled by withdrawals",
		}, []string{"shop_id"}),

		WithdrawalCooldownTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "withdrawal_cooldown_rejections_total",
			Help: "Withdrawal attempts rejected by the one-day cooldown",
		}, []string{"shop_id"}),

		GatewayErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_errors_total",
			Help: "Operation failures by error kind",
		}, []string{"operation", "kind"}),
	}
}

func shopLabel(shopID int64) string {
	return strconv.FormatInt(shopID, 10)
}

func (m *GatewayMetrics) RecordShopRegistered() {
	m.ShopsRegisteredTotal.Inc()
}

func (m *GatewayMetrics) RecordPaymentAccepted(shopID int64, amount, blockedAmount float64) {
	shop := shopLabel(shopID)
	m.PaymentsAcceptedTotal.WithLabelValues(shop).Inc()
	m.PaymentsAcceptedAmountTotal.WithLabelValues(shop).Add(amount)
	m.BlockedAmountTotal.WithLabelValues(shop).Add(blockedAmount)
}

func (m *GatewayMetrics) RecordTransitions(from, to string, applied, skipped int) {
	if applied > 0 {
		m.TransitionsAppliedTotal.WithLabelValues(from, to).Add(float64(applied))
	}
	if skipped > 0 {
		m.TransitionsSkippedTotal.WithLabelValues(to).Add(float64(skipped))
	}
}

func (m *GatewayMetrics) RecordWithdrawal(shopID int64, netTotal, feeTotal float64, payments int) {
	shop := shopLabel(shopID)
	m.WithdrawalsTotal.WithLabelValues(shop).Inc()
	// Commissions can exceed the payment amount, so the net total may be
	// negative; counters reject negative increments.
	if netTotal > 0 {
		m.WithdrawnAmountTotal.WithLabelValues(shop).Add(netTotal)
	}
	if feeTotal > 0 {
		m.CommissionFeeTotal.WithLabelValues(shop).Add(feeTotal)
	}
	m.WithdrawnPaymentsTotal.WithLabelValues(shop).Add(float64(payments))
}

func (m *GatewayMetrics) RecordCooldownRejection(shopID int64) {
	m.WithdrawalCooldownTotal.WithLabelValues(shopLabel(shopID)).Inc()
}

func (m *GatewayMetrics) RecordError(operation, kind string) {
	m.GatewayErrorsTotal.WithLabelValues(operation, kind).Inc()
}
