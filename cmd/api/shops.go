package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"paygate/internal/gateway"
	"paygate/internal/store"
)

type RegisterShopPayload struct {
	Name        string  `json:"name" validate:"required"`
	CommissionC float64 `json:"commissionC" validate:"required"`
}

// RegisterShop godoc
//
//	@Summary		Register a shop
//	@Description	Creates a shop with its own commission percentage and an empty payment list
//	@Tags			Shops
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RegisterShopPayload	true	"Shop name and commission"
//	@Success		201		{object}	store.Shop			"Registered shop"
//	@Failure		400		{object}	error				"Invalid name or commission"
//	@Router			/shops [post]
func (app *application) registerShopHandler(w http.ResponseWriter, r *http.Request) {
	var payload RegisterShopPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	shop, err := app.gateway.RegisterShop(r.Context(), payload.Name, payload.CommissionC)
	if err != nil {
		if errors.Is(err, gateway.ErrValidation) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, shop); err != nil {
		app.internalServerError(w, r, err)
	}
}

type shopResponse struct {
	Shop     *store.Shop     `json:"shop"`
	Payments []store.Payment `json:"payments"`
}

func (app *application) getShopHandler(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseInt(chi.URLParam(r, "shopID"), 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid shop ID")
		return
	}

	shop, payments, err := app.gateway.GetShop(r.Context(), shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, shopResponse{Shop: shop, Payments: payments}); err != nil {
		app.internalServerError(w, r, err)
	}
}
