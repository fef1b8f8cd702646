package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// APIError is a non-successful gateway response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the gateway.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
}

// GatewayClient talks to the review gateway API. Requests carry Origin when
// one is set, which makes the gateway treat them as coming from that domain.
type GatewayClient struct {
	baseURL    string
	origin     string
	httpClient *http.Client
}

// NewGatewayClient creates a client for the gateway at baseURL
// (e.g. "http://localhost:8080"). The request timeout defaults to 30 seconds.
func NewGatewayClient(baseURL string, timeout ...time.Duration) *GatewayClient {
	clientTimeout := 30 * time.Second
	if len(timeout) > 0 {
		clientTimeout = timeout[0]
	}

	return &GatewayClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// WithOrigin returns a copy of the client that sends the given Origin header.
func (c *GatewayClient) WithOrigin(origin string) *GatewayClient {
	cp := *c
	cp.origin = origin
	return &cp
}

// Ping checks that the gateway answers.
func (c *GatewayClient) Ping(ctx context.Context) error {
	var pong string
	return c.do(ctx, http.MethodGet, "/ping", nil, &pong)
}

// IsEditor reports whether address is an authorized editor.
func (c *GatewayClient) IsEditor(ctx context.Context, address common.Address) (bool, error) {
	var ok bool
	err := c.do(ctx, http.MethodGet, "/editors/"+address.Hex(), nil, &ok)
	return ok, err
}

// RegisterItem asks for itemName to be registered for the client's origin.
func (c *GatewayClient) RegisterItem(ctx context.Context, itemName string) error {
	return c.do(ctx, http.MethodPost, "/items/register", url.Values{"itemName": {itemName}}, nil)
}

// CheckRegistration returns the canonical item name approved for the
// client's origin. found is false when none is.
func (c *GatewayClient) CheckRegistration(ctx context.Context, itemName string) (canonical string, found bool, err error) {
	err = c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(itemName)+"/registration", nil, &canonical)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return canonical, true, nil
}

// Queue lists pending registrations. initiator must be an editor.
func (c *GatewayClient) Queue(ctx context.Context, initiator common.Address) ([]interfaces.PendingRegistration, error) {
	var queue []interfaces.PendingRegistration
	err := c.do(ctx, http.MethodGet, "/registration/queue", url.Values{"initiator": {initiator.Hex()}}, &queue)
	return queue, err
}

// Mapping lists approved registrations. initiator must be an editor.
func (c *GatewayClient) Mapping(ctx context.Context, initiator common.Address) ([]interfaces.ApprovedRegistration, error) {
	var mapping []interfaces.ApprovedRegistration
	err := c.do(ctx, http.MethodGet, "/registration/mapping", url.Values{"initiator": {initiator.Hex()}}, &mapping)
	return mapping, err
}

// Assign approves a pending registration as the canonical item itemName.
func (c *GatewayClient) Assign(ctx context.Context, initiator common.Address, proposedItemName, domain, itemName string) error {
	return c.do(ctx, http.MethodPost, "/registration/assign", url.Values{
		"initiator":        {initiator.Hex()},
		"proposedItemName": {proposedItemName},
		"domain":           {domain},
		"itemName":         {itemName},
	}, nil)
}

// RemoveFromQueue rejects a pending registration.
func (c *GatewayClient) RemoveFromQueue(ctx context.Context, initiator common.Address, proposedItemName, domain string) error {
	return c.do(ctx, http.MethodDelete, "/registration/queue", url.Values{
		"initiator":        {initiator.Hex()},
		"proposedItemName": {proposedItemName},
		"domain":           {domain},
	}, nil)
}

// do sends a request and decodes the envelope's message into out, if non-nil.
func (c *GatewayClient) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		var msg string
		if err := json.Unmarshal(env.Message, &msg); err != nil {
			msg = string(env.Message)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Message, out); err != nil {
		return fmt.Errorf("could not parse response message: %w", err)
	}
	return nil
}
