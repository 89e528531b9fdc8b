package main

import (
	"errors"
	"net/http"

	"paygate/internal/gateway"
)

type UpdateSettingsPayload struct {
	CommissionA float64 `json:"commissionA" validate:"required"`
	CommissionB float64 `json:"commissionB" validate:"required"`
	BlockSum    float64 `json:"blockSum" validate:"required"`
}

// UpdateSettings godoc
//
//	@Summary		Update gateway settings
//	@Description	Replaces the flat commission, percentage commission and block-sum percentage in one step
//	@Tags			Settings
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		UpdateSettingsPayload	true	"Commission and block-sum settings"
//	@Success		202		{object}	store.Settings			"Stored settings"
//	@Failure		400		{object}	error					"Invalid settings"
//	@Router			/settings [post]
func (app *application) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var payload UpdateSettingsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	settings, err := app.gateway.UpdateSettings(r.Context(), payload.CommissionA, payload.CommissionB, payload.BlockSum)
	if err != nil {
		if errors.Is(err, gateway.ErrValidation) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusAccepted, settings); err != nil {
		app.internalServerError(w, r, err)
	}
}
