// Package gateway is the client for the externally owned user-balance
// service. The remote side is the authority on spendable balance: it
// re-validates every debit, so a successful local read never guarantees a
// later debit will pass.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/NourWarrag/topup-service/internal/metrics"
	"github.com/NourWarrag/topup-service/internal/services"
	"github.com/shopspring/decimal"
)

type Client struct {
	baseURL    string
	httpClient *http.Client

	maxAttempts int
	retryBase   time.Duration
}

func NewClient(baseURL string, maxAttempts int, retryBase time.Duration) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if retryBase <= 0 {
		retryBase = 100 * time.Millisecond
	}
	return &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: maxAttempts,
		retryBase:   retryBase,
	}
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type debitCreditRequest struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// GetBalance reads the user's current balance.
func (c *Client) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, userID), nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, fmt.Errorf("%w: user %s", services.ErrUserBalanceNotFound, userID)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("balance service returned status %d", resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decode balance response: %w", err)
	}
	return body.Balance, nil
}

// Debit subtracts amount from the user's balance. The remote side re-checks
// funds at debit time, so both not-found and insufficient-funds can surface
// here even after a successful GetBalance.
func (c *Client) Debit(ctx context.Context, userID string, amount decimal.Decimal) error {
	return c.post(ctx, "debit", userID, amount)
}

// Credit adds amount back to the user's balance. Used to reverse a debit
// when the ledger commit fails after the debit already succeeded.
func (c *Client) Credit(ctx context.Context, userID string, amount decimal.Decimal) error {
	return c.post(ctx, "credit", userID, amount)
}

func (c *Client) post(ctx context.Context, op, userID string, amount decimal.Decimal) error {
	payload, err := json.Marshal(debitCreditRequest{UserID: userID, Amount: amount})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/%s", c.baseURL, op), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", services.ErrUserBalanceNotFound, strings.TrimSpace(string(msg)))
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", services.ErrInsufficientBalance, strings.TrimSpace(string(msg)))
	default:
		return fmt.Errorf("balance service %s returned status %d", op, resp.StatusCode)
	}
}

// do sends the request, retrying transport errors and 5xx responses with
// exponentially increasing, jittered backoff. Non-5xx responses are returned
// to the caller untouched.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var lastErr error
	backoff := c.retryBase

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.GatewayRetries.Inc()
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", services.ErrGatewayUnavailable, ctx.Err())
			case <-time.After(backoff + time.Duration(rand.Int63n(int64(backoff)))):
			}
			backoff *= 2
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("balance service returned status %d", resp.StatusCode)
			resp.Body.Close()
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("%w: %v", services.ErrGatewayUnavailable, lastErr)
}
