package gateway

import "errors"

var (
	ErrValidation     = errors.New("invalid input")
	ErrPayoutCooldown = errors.New("payout cooldown has not elapsed")
)
