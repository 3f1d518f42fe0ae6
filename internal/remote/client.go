package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tradeforge/accountsync/internal/models"
	"github.com/tradeforge/accountsync/pkg/logger"
)

// Client is the HTTP client for the platform's account API. It implements
// every service contract the controllers consume; transport and
// authentication details stay behind it.
type Client struct {
	logger *logger.Logger

	baseURL    string
	httpClient *http.Client

	mu       sync.RWMutex
	username string
	admin    bool
}

func NewClient(baseURL string, logger *logger.Logger) *Client {
	return &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// apiEnvelope is the shared response wrapper of the account API.
type apiEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type profileStatusResponse struct {
	apiEnvelope
	Data models.ProfileStatus `json:"data"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// FetchProfileStatus returns the authoritative profile snapshot and caches
// the session capability it carries.
func (c *Client) FetchProfileStatus(ctx context.Context) (*models.ProfileStatus, error) {
	var resp profileStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/user/profile-status", nil, &resp); err != nil {
		return nil, err
	}
	c.cacheSession(&resp.Data)
	return &resp.Data, nil
}

// UpdateProfile submits the changed contact fields.
func (c *Client) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) error {
	var resp apiEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/user/update-profile", update, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &models.RemoteRejection{Message: resp.Message, Fields: resp.Errors}
	}
	return nil
}

// Reauthenticate refreshes the current-session snapshot.
func (c *Client) Reauthenticate(ctx context.Context) error {
	var resp profileStatusResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/reauth", nil, &resp); err != nil {
		return err
	}
	c.cacheSession(&resp.Data)
	return nil
}

// IsAdmin reports the capability of the last seen session snapshot.
func (c *Client) IsAdmin() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.admin
}

// Username returns the identifier of the last seen session snapshot.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// FetchBalance returns the current wallet balance.
func (c *Client) FetchBalance(ctx context.Context) (int64, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, "/api/payment/balance", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

// CreateCharge initiates a wallet top-up.
func (c *Client) CreateCharge(ctx context.Context, amount int64) (*models.ChargeResult, error) {
	body := map[string]int64{"amount": amount}
	var resp models.ChargeResult
	if err := c.do(ctx, http.MethodPost, "/api/payment/create-charge", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchSettings returns the system settings aggregate.
func (c *Client) FetchSettings(ctx context.Context) (*models.SystemSettings, error) {
	var resp models.SystemSettings
	if err := c.do(ctx, http.MethodGet, "/api/admin/settings", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSettings applies a partial change and returns the full aggregate.
func (c *Client) UpdateSettings(ctx context.Context, update *models.SettingsUpdate) (*models.SystemSettings, error) {
	var resp models.SystemSettings
	if err := c.do(ctx, http.MethodPut, "/api/admin/settings", update, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearAiCache drops the remote AI analysis cache.
func (c *Client) ClearAiCache(ctx context.Context) (*models.ClearCacheResult, error) {
	var resp models.ClearCacheResult
	if err := c.do(ctx, http.MethodPost, "/api/admin/clear-cache", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) cacheSession(status *models.ProfileStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = status.Username
	c.admin = status.Admin
}

// do issues one JSON request and decodes the response. A declined operation
// (HTTP 4xx/5xx with a decodable body) becomes a *models.RemoteRejection, a
// failure to obtain a usable response becomes a *models.TransportError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := fmt.Sprintf("%s %s", method, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope apiEnvelope
		if err := json.Unmarshal(data, &envelope); err == nil && (envelope.Message != "" || len(envelope.Errors) > 0) {
			return &models.RemoteRejection{Message: envelope.Message, Fields: envelope.Errors}
		}
		return &models.RemoteRejection{Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &models.TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

var (
	_ models.AccountService  = (*Client)(nil)
	_ models.WalletService   = (*Client)(nil)
	_ models.SettingsService = (*Client)(nil)
	_ models.SessionService  = (*Client)(nil)
)
