package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTokenURL    = "https://securetoken.googleapis.com/v1/token"
)

// ErrNotSignedIn is returned when a token is requested with no stored
// refresh credential.
var ErrNotSignedIn = errors.New("not signed in")

// Client is the Firebase Identity Toolkit adapter. It implements the
// token-source contract the backend client expects: Token exchanges the
// stored refresh token for a fresh ID token on every call, trading one extra
// round trip for never holding a stale credential.
type Client struct {
	APIKey      string
	IdentityURL string
	TokenURL    string
	HTTP        *http.Client

	store  *CredentialStore
	logger *zap.Logger

	mu      sync.Mutex
	user    *User
	refresh string
}

func NewClient(apiKey string, store *CredentialStore, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		APIKey:      apiKey,
		IdentityURL: defaultIdentityURL,
		TokenURL:    defaultTokenURL,
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		store:       store,
		logger:      logger,
	}
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		CreatedAt   string `json:"createdAt"`
	} `json:"users"`
}

type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
}

type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn authenticates with email and password and makes the account the
// current identity.
func (c *Client) SignIn(ctx context.Context, email, password string) (User, error) {
	var resp signInResponse
	err := c.post(ctx, c.IdentityURL+"/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return User{}, err
	}

	user := User{UID: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}
	if looked, err := c.lookup(ctx, resp.IDToken); err == nil {
		user = looked
	}

	c.mu.Lock()
	c.user = &user
	c.refresh = resp.RefreshToken
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(Credentials{
			RefreshToken: resp.RefreshToken,
			UID:          user.UID,
			Email:        user.Email,
			DisplayName:  user.DisplayName,
		}); err != nil {
			c.logger.Warn("persist credentials failed", zap.Error(err))
		}
	}
	return user, nil
}

// SignUp registers a new email/password account. The caller signs in
// afterwards; registration does not switch the current identity.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	var resp signInResponse
	return c.post(ctx, c.IdentityURL+"/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
}

// SendPasswordReset asks the provider to email a reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, c.IdentityURL+"/accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// Token exchanges the refresh credential for a fresh ID token. Called
// immediately before every backend request; nothing is cached across calls.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()
	if refresh == "" {
		return "", ErrNotSignedIn
	}

	var resp refreshResponse
	err := c.post(ctx, c.TokenURL, map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refresh,
	}, &resp)
	if err != nil {
		return "", err
	}

	// The provider may rotate the refresh token on exchange.
	if resp.RefreshToken != "" && resp.RefreshToken != refresh {
		c.mu.Lock()
		c.refresh = resp.RefreshToken
		user := c.user
		c.mu.Unlock()
		if c.store != nil && user != nil {
			_ = c.store.Save(Credentials{
				RefreshToken: resp.RefreshToken,
				UID:          user.UID,
				Email:        user.Email,
				DisplayName:  user.DisplayName,
			})
		}
	}
	return resp.IDToken, nil
}

// CurrentUser returns the signed-in user record, or false when nobody is
// signed in.
func (c *Client) CurrentUser() (User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return User{}, false
	}
	return *c.user, true
}

// Resume restores the identity persisted by a previous run. Returns false
// when there is nothing to restore or the stored credential no longer works.
func (c *Client) Resume(ctx context.Context) (User, bool) {
	if c.store == nil {
		return User{}, false
	}
	creds, err := c.store.Load()
	if err != nil || creds.RefreshToken == "" {
		return User{}, false
	}

	c.mu.Lock()
	c.refresh = creds.RefreshToken
	c.user = &User{UID: creds.UID, Email: creds.Email, DisplayName: creds.DisplayName}
	c.mu.Unlock()

	token, err := c.Token(ctx)
	if err != nil {
		c.SignOut()
		return User{}, false
	}
	user, err := c.lookup(ctx, token)
	if err != nil {
		c.mu.Lock()
		u := *c.user
		c.mu.Unlock()
		return u, true
	}
	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return user, true
}

// SignOut clears the identity cell and the persisted credential.
func (c *Client) SignOut() {
	c.mu.Lock()
	c.user = nil
	c.refresh = ""
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("clear credentials failed", zap.Error(err))
		}
	}
}

// DeleteAccount permanently removes the signed-in account, then signs out.
func (c *Client) DeleteAccount(ctx context.Context) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	if err := c.post(ctx, c.IdentityURL+"/accounts:delete", map[string]any{
		"idToken": token,
	}, nil); err != nil {
		return err
	}
	c.SignOut()
	return nil
}

func (c *Client) lookup(ctx context.Context, idToken string) (User, error) {
	var resp lookupResponse
	err := c.post(ctx, c.IdentityURL+"/accounts:lookup", map[string]any{
		"idToken": idToken,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	if len(resp.Users) == 0 {
		return User{}, errors.New("account lookup returned no users")
	}
	u := resp.Users[0]
	user := User{UID: u.LocalID, Email: u.Email, DisplayName: u.DisplayName}
	// createdAt is milliseconds since epoch, as a string.
	if ms, err := strconv.ParseInt(u.CreatedAt, 10, 64); err == nil {
		user.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return user, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"?key="+c.APIKey, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}

	if resp.StatusCode >= 300 {
		var perr providerError
		if err := json.Unmarshal(data, &perr); err == nil && perr.Error.Message != "" {
			c.logger.Info("identity provider rejection", zap.String("code", perr.Error.Message))
			return failureFor(perr.Error.Message)
		}
		return &AuthFailure{Code: resp.Status, Message: msgGeneric}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode identity response: %w", err)
		}
	}
	return nil
}
