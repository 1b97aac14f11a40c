package licensesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a licensing service over the action API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do posts an ActionRequest and decodes the response body into out. A non-2xx
// status is not an error by itself; the envelope carries the outcome and the
// caller decides what a 4xx/5xx means for it. StatusCode is returned so the
// caller can assert the mapping.
func (c *Client) Do(ctx context.Context, action ActionRequest, out any) (int, error) {
	body, err := json.Marshal(action)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/actions", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) CreateApp(ctx context.Context, appName, userID string) (CreateAppResponse, int, error) {
	var out CreateAppResponse
	code, err := c.Do(ctx, ActionRequest{Action: "create_app", AppName: appName, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) DeleteApp(ctx context.Context, appName, userID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "delete_app", AppName: appName, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) CreateKey(ctx context.Context, api, prefix string, days, deviceLimit int, userID string) (CreateKeyResponse, int, error) {
	var out CreateKeyResponse
	code, err := c.Do(ctx, ActionRequest{
		Action: "create_key", API: api, Prefix: prefix,
		Days: days, DeviceLimit: deviceLimit, UserID: userID,
	}, &out)
	return out, code, err
}

func (c *Client) DeleteKey(ctx context.Context, api, key, userID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "delete_key", API: api, Key: key, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) BanKey(ctx context.Context, api, key, userID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "ban_key", API: api, Key: key, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) CheckKey(ctx context.Context, api, key, userID string) (CheckKeyResponse, int, error) {
	var out CheckKeyResponse
	code, err := c.Do(ctx, ActionRequest{Action: "check_key", API: api, Key: key, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) ResetHWID(ctx context.Context, api, key, userID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "reset_hwid", API: api, Key: key, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) GetApps(ctx context.Context, userID string) (ListAppsResponse, int, error) {
	var out ListAppsResponse
	code, err := c.Do(ctx, ActionRequest{Action: "get_apps", UserID: userID}, &out)
	return out, code, err
}

func (c *Client) GetKeys(ctx context.Context, api, userID string) (ListKeysResponse, int, error) {
	var out ListKeysResponse
	code, err := c.Do(ctx, ActionRequest{Action: "get_keys", API: api, UserID: userID}, &out)
	return out, code, err
}

func (c *Client) AddSupport(ctx context.Context, userID, adminID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "add_support", UserID: userID, AdminID: adminID}, &out)
	return out, code, err
}

func (c *Client) DeleteSupport(ctx context.Context, userID, adminID string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{Action: "delete_support", UserID: userID, AdminID: adminID}, &out)
	return out, code, err
}

func (c *Client) GetSupports(ctx context.Context) (SupportsResponse, int, error) {
	var out SupportsResponse
	code, err := c.Do(ctx, ActionRequest{Action: "get_supports"}, &out)
	return out, code, err
}

func (c *Client) ValidateKey(ctx context.Context, api, key, hwid, systemInfo string) (Envelope, int, error) {
	var out Envelope
	code, err := c.Do(ctx, ActionRequest{
		Action: "validate_key", API: api, Key: key,
		HWID: hwid, SystemInfo: systemInfo,
	}, &out)
	return out, code, err
}

func (c *Client) CheckPermission(ctx context.Context, userID, api string) (PermissionResponse, int, error) {
	var out PermissionResponse
	code, err := c.Do(ctx, ActionRequest{Action: "check_permission", UserID: userID, API: api}, &out)
	return out, code, err
}

// Livez fetches the liveness probe.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz fetches the readiness probe.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (HealthResponse, error) {
	var out HealthResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return out, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
