// Package client calls the registration server's JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"award-registration/internal/logger"
	"award-registration/internal/models"
	"award-registration/internal/payment"
)

// PaymentAPI is the wizard's IntentCreator over HTTP.
type PaymentAPI struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewPaymentAPI(baseURL string, client *http.Client, log *logger.Logger) *PaymentAPI {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PaymentAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  log,
	}
}

// CreateIntent posts req to /api/payment. Error responses come back as a
// *payment.Error carrying the server's message.
func (p *PaymentAPI) CreateIntent(ctx context.Context, req models.IntentRequest) (models.IntentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return models.IntentResponse{}, fmt.Errorf("encode intent request: %w", err)
	}

	var out models.IntentResponse
	if err := p.do(ctx, http.MethodPost, "/api/payment", bytes.NewReader(body), &out); err != nil {
		return models.IntentResponse{}, err
	}
	p.logger.Info("CLIENT", fmt.Sprintf("Intent issued: %s", out.IntentID))
	return out, nil
}

// Offerings fetches the catalog the server sells.
func (p *PaymentAPI) Offerings(ctx context.Context) (models.OfferingsResponse, error) {
	var out models.OfferingsResponse
	err := p.do(ctx, http.MethodGet, "/api/offerings", nil, &out)
	return out, err
}

func (p *PaymentAPI) do(ctx context.Context, method, path string, body io.Reader, out interface{}) error {
	url := p.baseURL + path
	p.logger.Debug("CLIENT", fmt.Sprintf("%s %s", method, url))

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("CLIENT", fmt.Sprintf("Registration server error: %v", err))
		return payment.UpstreamUnavailable(err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			p.logger.Error("CLIENT", fmt.Sprintf("Failed to close response body: %v", err))
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return p.errorFrom(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		p.logger.Error("CLIENT", fmt.Sprintf("Failed to decode %s response: %v", path, err))
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (p *PaymentAPI) errorFrom(resp *http.Response) error {
	var e models.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
	if e.Error == "" {
		e.Error = http.StatusText(resp.StatusCode)
	}
	p.logger.Warn("CLIENT", fmt.Sprintf("Server returned %d: %s", resp.StatusCode, e.Error))

	kind := payment.KindValidation
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = payment.KindUpstream
	case resp.StatusCode >= 500:
		kind = payment.KindUpstreamUnavailable
	}
	return &payment.Error{
		Kind:          kind,
		StatusCode:    resp.StatusCode,
		PublicError:   e.Error,
		InternalError: fmt.Sprintf("server returned %d: %s", resp.StatusCode, e.Error),
	}
}
