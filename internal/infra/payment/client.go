package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"slot-capacity-engine/internal/pkg/config"
	"slot-capacity-engine/internal/pkg/errs"
	"slot-capacity-engine/internal/usecase/shared"
)

const maxErrorBody = 4 << 10

// Client talks JSON to the payment gateway. Every failure is marked errs.ErrPayment.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type createIntentRequest struct {
	AmountCents int64             `json:"amount_cents"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type intentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type createRefundRequest struct {
	PaymentIntent string `json:"payment_intent"`
}

type refundResponse struct {
	ID string `json:"id"`
}

func (c *Client) CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (string, error) {
	var out intentResponse
	err := c.do(ctx, http.MethodPost, "/v1/payment_intents", "", createIntentRequest{
		AmountCents: amountCents,
		Metadata:    metadata,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errs.Mark(errs.New("gateway returned an intent without id"), errs.ErrPayment)
	}
	return out.ID, nil
}

func (c *Client) GetPaymentStatus(ctx context.Context, ref string) (shared.PaymentStatus, error) {
	var out intentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(ref), "", nil, &out); err != nil {
		return "", err
	}

	switch shared.PaymentStatus(out.Status) {
	case shared.PaymentSucceeded, shared.PaymentPending, shared.PaymentFailed:
		return shared.PaymentStatus(out.Status), nil
	// gateway-side intermediate states collapse to pending
	case "processing", "requires_action", "requires_payment_method":
		return shared.PaymentPending, nil
	default:
		return "", errs.Mark(errs.Newf("unknown payment status %q for %s", out.Status, ref), errs.ErrPayment)
	}
}

// CreateRefund keys the request on ref; the gateway returns the same refund for a repeated call.
func (c *Client) CreateRefund(ctx context.Context, ref string) (string, error) {
	var out refundResponse
	err := c.do(ctx, http.MethodPost, "/v1/refunds", "refund-"+ref, createRefundRequest{PaymentIntent: ref}, &out)
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.Mark(errs.Wrap(err, "failed to marshal request body"), errs.ErrPayment)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "failed to create request"), errs.ErrPayment)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "%s %s", method, path), errs.ErrPayment)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.Mark(
			errs.Newf("%s %s: gateway answered %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet))),
			errs.ErrPayment,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to decode gateway response"), errs.ErrPayment)
	}
	return nil
}
