package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"paygate/internal/gateway"
	"paygate/internal/store"
)

type AcceptPaymentPayload struct {
	ShopID int64   `json:"shopId"`
	Amount float64 `json:"amount"`
}

// AcceptPayment godoc
//
//	@Summary		Accept a payment
//	@Description	Records a customer payment for a shop; the block-sum percentage in effect right now determines the blocked amount
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AcceptPaymentPayload	true	"Shop id and amount"
//	@Success		202		{object}	store.Payment			"Accepted payment"
//	@Failure		400		{object}	error					"Invalid shop id or amount"
//	@Failure		404		{object}	error					"Shop not found"
//	@Router			/payments/accept [post]
func (app *application) acceptPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload AcceptPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	payment, err := app.gateway.AcceptPayment(r.Context(), payload.ShopID, payload.Amount)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusAccepted, payment); err != nil {
		app.internalServerError(w, r, err)
	}
}

type TransitionPayload struct {
	PaymentIDs []int64 `json:"paymentIds"`
}

type transitionResponse struct {
	Results  []store.TransitionResult `json:"results"`
	Payments []store.Payment          `json:"payments"`
}

// POST /v1/payments/process  {paymentIds} — accepted payments become processed.
func (app *application) processPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	app.transitionHandler(w, r, app.gateway.ProcessPayments)
}

// POST /v1/payments/complete  {paymentIds} — processed payments become completed.
func (app *application) completePaymentsHandler(w http.ResponseWriter, r *http.Request) {
	app.transitionHandler(w, r, app.gateway.CompletePayments)
}

func (app *application) transitionHandler(
	w http.ResponseWriter,
	r *http.Request,
	transition func(context.Context, []int64) ([]store.TransitionResult, error),
) {
	var payload TransitionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.PaymentIDs == nil {
		app.badRequestResponse(w, r, fmt.Errorf("paymentIds is required"))
		return
	}

	results, err := transition(r.Context(), payload.PaymentIDs)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	resp := transitionResponse{
		Results:  results,
		Payments: app.gateway.ListPayments(r.Context()),
	}
	if err := app.jsonResponse(w, http.StatusCreated, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type WithdrawPayload struct {
	ShopID int64 `json:"shopId"`
}

// Withdraw godoc
//
//	@Summary		Withdraw a shop's completed payments
//	@Description	Settles every completed payment net of commissions A, B and the shop's commission C; at most one withdrawal per shop per calendar day
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		WithdrawPayload				true	"Shop id"
//	@Success		200		{object}	gateway.WithdrawalStatement	"Withdrawal statement"
//	@Failure		400		{object}	error						"Invalid shop id"
//	@Failure		404		{object}	error						"Shop not found"
//	@Failure		409		{object}	error						"Payout cooldown not elapsed"
//	@Router			/payments/withdraw [post]
func (app *application) withdrawHandler(w http.ResponseWriter, r *http.Request) {
	var payload WithdrawPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	statement, err := app.gateway.Withdraw(r.Context(), payload.ShopID)
	if err != nil {
		app.gatewayErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, statement); err != nil {
		app.internalServerError(w, r, err)
	}
}

// gatewayErrorResponse maps the three domain error classes onto their status
// codes.
func (app *application) gatewayErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, store.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, gateway.ErrPayoutCooldown):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}
