// Package client is the API consumer used by the dashboard tooling. Reads
// degrade to a bundled sample dataset when the API is unreachable, and every
// result is tagged with where its data came from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// Source identifies the origin of a result's data.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Result pairs response data with its source. Reason is set only on
// fallback results and names the failure that triggered the degrade.
type Result[T any] struct {
	Data   T
	Source Source
	Reason string
}

// Options configures a Client. AllowFallback controls whether read
// failures degrade to sample data; when false they surface as errors.
// SimulateWrites short-circuits mutating calls without touching the API.
type Options struct {
	BaseURL        string
	AllowFallback  bool
	SimulateWrites bool
	Timeout        time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	baseURL        string
	allowFallback  bool
	simulateWrites bool
	httpClient     *http.Client
	logger         *slog.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		allowFallback:  opts.AllowFallback,
		simulateWrites: opts.SimulateWrites,
		httpClient:     httpClient,
		logger:         slog.Default().With(applog.FieldComponent, applog.ComponentClient),
	}
}

// ListUsersWithSummary fetches every user with computed summaries.
func (c *Client) ListUsersWithSummary(ctx context.Context) (Result[[]core.UserWithSummary], error) {
	var users []core.UserWithSummary
	if err := c.get(ctx, "/users", &users); err != nil {
		return fallback(c, "list users", err, SampleUsersWithSummary())
	}
	return live(users), nil
}

// GetUserWithSummary fetches a single user with their summary.
func (c *Client) GetUserWithSummary(ctx context.Context, id string) (Result[core.UserWithSummary], error) {
	var user core.UserWithSummary
	if err := c.get(ctx, "/users/"+id, &user); err != nil {
		for _, u := range SampleUsersWithSummary() {
			if u.ID == id {
				return fallback(c, "get user", err, u)
			}
		}
		return fallback(c, "get user", err, core.UserWithSummary{})
	}
	return live(user), nil
}

// ListTransactions fetches all transactions for a user.
func (c *Client) ListTransactions(ctx context.Context, userID string) (Result[[]core.Transaction], error) {
	var txs []core.Transaction
	if err := c.get(ctx, "/transactions/"+userID, &txs); err != nil {
		return fallback(c, "list transactions", err, SampleTransactions(userID))
	}
	return live(txs), nil
}

func (c *Client) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if c.simulateWrites {
		u.ID = uuid.NewString()
		c.logger.InfoContext(ctx, "Simulated user creation", applog.FieldUserID, u.ID)
		return u, nil
	}
	var created core.User
	if err := c.send(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return core.User{}, err
	}
	return created, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]any) (core.User, error) {
	if c.simulateWrites {
		c.logger.InfoContext(ctx, "Simulated user update", applog.FieldUserID, id)
		return core.User{ID: id}, nil
	}
	var updated core.User
	if err := c.send(ctx, http.MethodPut, "/users/"+id, fields, &updated); err != nil {
		return core.User{}, err
	}
	return updated, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if c.simulateWrites {
		c.logger.InfoContext(ctx, "Simulated user deletion", applog.FieldUserID, id)
		return nil
	}
	return c.send(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}

// CreateTransaction posts a new transaction. Amount is a decimal string
// like "12.50", matching the API's request shape.
func (c *Client) CreateTransaction(ctx context.Context, userID string, req TransactionRequest) (core.Transaction, error) {
	if c.simulateWrites {
		c.logger.InfoContext(ctx, "Simulated transaction creation", applog.FieldUserID, userID)
		return core.Transaction{ID: uuid.NewString(), UserID: userID}, nil
	}
	var created core.Transaction
	if err := c.send(ctx, http.MethodPost, "/transactions/"+userID, req, &created); err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, fields map[string]any) (core.Transaction, error) {
	if c.simulateWrites {
		c.logger.InfoContext(ctx, "Simulated transaction update", applog.FieldTransactionID, id)
		return core.Transaction{ID: id}, nil
	}
	var updated core.Transaction
	if err := c.send(ctx, http.MethodPut, "/transactions/"+id, fields, &updated); err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	if c.simulateWrites {
		c.logger.InfoContext(ctx, "Simulated transaction deletion", applog.FieldTransactionID, id)
		return nil
	}
	return c.send(ctx, http.MethodDelete, "/transactions/"+id, nil, nil)
}

// TransactionRequest is the write shape for transactions.
type TransactionRequest struct {
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("api returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api returned %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func live[T any](data T) Result[T] {
	return Result[T]{Data: data, Source: SourceLive}
}

// fallback tags sample data with the failure reason. With fallback
// disabled the read error surfaces instead.
func fallback[T any](c *Client, op string, cause error, sample T) (Result[T], error) {
	if !c.allowFallback {
		return Result[T]{}, fmt.Errorf("%s: %w", op, cause)
	}
	c.logger.Warn("API unreachable, serving sample data",
		applog.FieldSource, string(SourceFallback),
		applog.FieldError, cause)
	return Result[T]{Data: sample, Source: SourceFallback, Reason: cause.Error()}, nil
}
