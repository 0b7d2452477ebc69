// Package api exposes the registration endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/payment"
	"award-registration/internal/sse"
	"award-registration/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

const (
	maxIntentBody   = 64 << 10
	maxCallbackBody = 1 << 20
	qrSize          = 256
)

type IntentCreator interface {
	// Ready is checked before the request body is read.
	Ready() error
	CreateIntent(ctx context.Context, req models.IntentRequest) (models.IntentResponse, error)
}

type CallbackHandler interface {
	Handle(ctx context.Context, payload []byte, header string) (*models.Confirmation, error)
}

type Handler struct {
	Intents   IntentCreator
	Callbacks CallbackHandler
	Emitter   *sse.ConfirmationEmitter
	Offerings models.OfferingsResponse
	Page      http.Handler
	Logger    *logger.Logger
}

// CreatePaymentIntent handles POST /api/payment.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if err := h.Intents.Ready(); err != nil {
		h.writePaymentError(w, "PAYMENT", err)
		return
	}

	var req models.IntentRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxIntentBody)).Decode(&req); err != nil {
		h.Logger.Warn("PAYMENT", fmt.Sprintf("Undecodable intent request: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	resp, err := h.Intents.CreateIntent(r.Context(), req)
	if err != nil {
		h.writePaymentError(w, "PAYMENT", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// HandleWebhook handles POST /api/webhook. The raw body is verified before
// anything is decoded.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBody))
	if err != nil {
		h.Logger.Warn("WEBHOOK", fmt.Sprintf("Failed to read callback body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if _, err := h.Callbacks.Handle(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.writePaymentError(w, "WEBHOOK", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.WebhookAck{Received: true})
}

func (h *Handler) GetOfferings(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.Offerings)
}

// ConfirmationQR renders the confirmation reference for an intent as a PNG.
func (h *Handler) ConfirmationQR(w http.ResponseWriter, r *http.Request) {
	ref := models.ConfirmationRef(chi.URLParam(r, "intentId"))
	if ref == "" {
		utils.WriteError(w, http.StatusBadRequest, "Intent id is required.")
		return
	}

	png, err := qrcode.Encode(ref, qrcode.Medium, qrSize)
	if err != nil {
		h.Logger.Error("QR", fmt.Sprintf("Failed to encode confirmation %s: %v", ref, err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writePaymentError(w http.ResponseWriter, category string, err error) {
	pe := payment.AsError(err)
	if pe.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error(category, pe.Error())
	} else {
		h.Logger.Warn(category, pe.Error())
	}
	utils.WriteError(w, pe.StatusCode, pe.PublicError)
}
