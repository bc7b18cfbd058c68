package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/common"
)

const (
	retryBase     = 200 * time.Millisecond
	retryAttempts = 2 // retries after the initial attempt, GETs only
)

// HTTPClient talks to the portal backend over plain REST with a bearer
// token. Idempotent GETs are retried with exponential backoff on transient
// failures (connectivity, 5xx); mutations are never retried.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the given base URL (e.g.
// "http://localhost:8000"). requestTimeout applies per request.
func NewHTTPClient(baseURL string, requestTimeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// errResponse is the backend's error body: {"detail": "..."}.
type errResponse struct {
	Detail string `json:"detail"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.Token(); t != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+t)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return MapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return MapStatus(resp.StatusCode, er.Detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get performs a GET with bounded exponential backoff on transient errors.
// 401/409/404 and other client errors fail immediately.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, path, query, nil, out)
		if errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrServer) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var res models.LoginResult
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) SetPassword(ctx context.Context, email, newPassword string) (*models.LoginResult, error) {
	var res models.LoginResult
	payload := map[string]string{"email": email, "new_password": newPassword}
	if err := c.do(ctx, http.MethodPost, "/api/auth/set-password", nil, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.StoredFile, error) {
	var res []models.StoredFile
	if err := c.get(ctx, "/api/files", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) StorageInfo(ctx context.Context) (*models.StorageInfo, error) {
	var res models.StorageInfo
	if err := c.get(ctx, "/api/user/storage-info", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ContainerOptions(ctx context.Context) ([]models.ContainerOption, error) {
	var res []models.ContainerOption
	if err := c.get(ctx, "/api/containers", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var res models.AdminStats
	if err := c.get(ctx, "/api/admin/stats", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var res []models.ActivityEntry
	if err := c.get(ctx, "/api/admin/activity", q, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, p models.ListParams) (*models.UserPage, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var res models.UserPage
	if err := c.get(ctx, "/api/admin/users", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	var res models.User
	if err := c.do(ctx, http.MethodPost, "/api/admin/users", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, req models.UserRequest) (*models.User, error) {
	var res models.User
	if err := c.do(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) ToggleUser(ctx context.Context, id string) (*models.User, error) {
	var res models.User
	if err := c.do(ctx, http.MethodPatch, "/api/admin/users/"+url.PathEscape(id)+"/toggle", nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListStorageAccounts(ctx context.Context) ([]models.StorageAccount, error) {
	var res []models.StorageAccount
	if err := c.get(ctx, "/api/admin/storage-accounts", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) CreateStorageAccount(ctx context.Context, req models.StorageAccountRequest) (*models.StorageAccount, error) {
	var res models.StorageAccount
	if err := c.do(ctx, http.MethodPost, "/api/admin/storage-accounts", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UpdateStorageAccount(ctx context.Context, id string, req models.StorageAccountRequest) (*models.StorageAccount, error) {
	var res models.StorageAccount
	if err := c.do(ctx, http.MethodPut, "/api/admin/storage-accounts/"+url.PathEscape(id), nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteStorageAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/storage-accounts/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) ContainersWithAccounts(ctx context.Context) ([]models.ContainerOption, error) {
	var res []models.ContainerOption
	if err := c.get(ctx, "/api/admin/containers-with-accounts", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) CreateContainer(ctx context.Context, req models.ContainerRequest) (*models.Container, error) {
	var res models.Container
	if err := c.do(ctx, http.MethodPost, "/api/admin/containers", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteContainer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/containers/"+url.PathEscape(id), nil, nil, nil)
}
