package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/userservice/user-service/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config holds the wallet service endpoints.
type Config struct {
	// AdminURL is the base of the admin API, e.g. http://wallet:8082/admin/wallets.
	AdminURL string
	// WalletsURL is the base of the public API, e.g. http://wallet:8082/wallets.
	WalletsURL string
	Timeout    time.Duration
}

// Client implements ports.WalletClient over HTTP. Every call forwards the
// caller's bearer token, when one is given, and the request id found in ctx.
type Client struct {
	adminURL   string
	walletsURL string
	http       *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		adminURL:   strings.TrimRight(cfg.AdminURL, "/"),
		walletsURL: strings.TrimRight(cfg.WalletsURL, "/"),
		http:       &http.Client{Timeout: timeout},
	}
}

type userRequest struct {
	UserID int64 `json:"userId"`
}

type provisionRequest struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// Blacklist calls POST <admin>/blacklist.
func (c *Client) Blacklist(ctx context.Context, userID int64, token string) error {
	return c.send(ctx, http.MethodPost, c.adminURL+"/blacklist", token, userRequest{UserID: userID}, nil)
}

// Unblock calls POST <admin>/blacklist/unblock.
func (c *Client) Unblock(ctx context.Context, userID int64, token string) error {
	return c.send(ctx, http.MethodPost, c.adminURL+"/blacklist/unblock", token, userRequest{UserID: userID}, nil)
}

// DeleteWallets calls DELETE <admin>/{userId}.
func (c *Client) DeleteWallets(ctx context.Context, userID int64, token string) error {
	return c.send(ctx, http.MethodDelete, c.adminURL+"/"+strconv.FormatInt(userID, 10), token, nil, nil)
}

// ListWallets calls GET <wallets>/user/{userId}.
func (c *Client) ListWallets(ctx context.Context, userID int64, token string) ([]domain.Wallet, error) {
	var wallets []domain.Wallet
	url := c.walletsURL + "/user/" + strconv.FormatInt(userID, 10)
	if err := c.send(ctx, http.MethodGet, url, token, nil, &wallets); err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	return wallets, nil
}

// ProvisionWallet calls POST <wallets> for a freshly registered account.
func (c *Client) ProvisionWallet(ctx context.Context, userID int64, username string) error {
	return c.send(ctx, http.MethodPost, c.walletsURL, "", provisionRequest{UserID: userID, Username: username}, nil)
}

func (c *Client) send(ctx context.Context, method, url, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode wallet request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrWalletUnavailable, err)
	}
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set(echo.HeaderXRequestID, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrWalletUnavailable, method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s", domain.ErrWalletUnavailable, method, url, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("%w: decode response: %v", domain.ErrWalletUnavailable, err)
		}
	}
	return nil
}

type requestIDKey struct{}

// WithRequestID stores the inbound request id so outbound calls can forward it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
