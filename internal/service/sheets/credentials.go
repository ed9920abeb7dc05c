package sheets

import (
	"ProgJulia/internal/lib/sl"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/sheets/v4"
)

const (
	clientSecret = "client"
	tokenSecret  = "token"
)

var (
	ErrNoCredentials = errors.New("google credentials are not installed")
	ErrNotAuthorized = errors.New("google access is not authorized")
	ErrNoClientID    = errors.New("credentials file has no client id")
	ErrBadState      = errors.New("oauth state does not match")
)

var scopes = []string{sheets.SpreadsheetsReadonlyScope, docs.DocumentsReadonlyScope}

type SecretStore interface {
	SaveGoogleSecret(ctx context.Context, kind string, data []byte) error
	LoadGoogleSecret(ctx context.Context, kind string) ([]byte, error)
	DeleteGoogleSecret(ctx context.Context, kind string) error
}

// Credentials holds the OAuth client uploaded through /google_credentials and
// the token obtained after the operator grants access.
type Credentials struct {
	store       SecretStore
	redirectURL string

	mu     sync.RWMutex
	config *oauth2.Config
	state  string

	log *slog.Logger
}

func NewCredentials(store SecretStore, redirectURL string, log *slog.Logger) *Credentials {
	return &Credentials{
		store:       store,
		redirectURL: redirectURL,
		log:         log.With(sl.Module("google-credentials")),
	}
}

// Load reads previously installed credentials. Missing credentials are not an error.
func (c *Credentials) Load(ctx context.Context) error {
	raw, err := c.store.LoadGoogleSecret(ctx, clientSecret)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if raw == nil {
		c.log.Warn("no google credentials installed")
		return nil
	}
	cfg, err := c.parse(raw)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	c.log.With(slog.String("client_id", cfg.ClientID)).Info("google credentials loaded")
	return nil
}

func (c *Credentials) parse(raw []byte) (*oauth2.Config, error) {
	cfg, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if cfg.ClientID == "" {
		return nil, ErrNoClientID
	}
	if c.redirectURL != "" {
		cfg.RedirectURL = c.redirectURL
	}
	return cfg, nil
}

// CredentialKey is the client id of the installed credentials or "".
func (c *Credentials) CredentialKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config == nil {
		return ""
	}
	return c.config.ClientID
}

func (c *Credentials) ClearToken(ctx context.Context) error {
	return c.store.DeleteGoogleSecret(ctx, tokenSecret)
}

// Store validates and saves an uploaded credentials file and returns its client id.
func (c *Credentials) Store(ctx context.Context, raw []byte) (string, error) {
	cfg, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	if err = c.store.SaveGoogleSecret(ctx, clientSecret, raw); err != nil {
		return "", fmt.Errorf("save credentials: %w", err)
	}

	c.mu.Lock()
	c.config = cfg
	c.state = ""
	c.mu.Unlock()

	c.log.With(slog.String("client_id", cfg.ClientID)).Info("google credentials installed")
	return cfg.ClientID, nil
}

// AuthURL starts a consent round and returns the link the operator must open.
func (c *Credentials) AuthURL(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config == nil {
		return "", ErrNoCredentials
	}
	c.state = uuid.NewString()
	return c.config.AuthCodeURL(c.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange completes the consent round started by AuthURL.
func (c *Credentials) Exchange(ctx context.Context, state, code string) error {
	c.mu.Lock()
	cfg := c.config
	expected := c.state
	if cfg != nil && expected != "" && state == expected {
		c.state = ""
	}
	c.mu.Unlock()

	if cfg == nil {
		return ErrNoCredentials
	}
	if expected == "" || state != expected {
		return ErrBadState
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	if err = c.saveToken(ctx, token); err != nil {
		return err
	}
	c.log.Info("google access granted")
	return nil
}

func (c *Credentials) saveToken(ctx context.Context, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err = c.store.SaveGoogleSecret(ctx, tokenSecret, data); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Client returns an HTTP client authorised for the Sheets and Docs APIs.
// Refreshed tokens are written back to the store.
func (c *Credentials) Client(ctx context.Context) (*http.Client, error) {
	c.mu.RLock()
	cfg := c.config
	c.mu.RUnlock()
	if cfg == nil {
		return nil, ErrNoCredentials
	}

	raw, err := c.store.LoadGoogleSecret(ctx, tokenSecret)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if raw == nil {
		return nil, ErrNotAuthorized
	}
	var token oauth2.Token
	if err = json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	src := &savingTokenSource{
		base: cfg.TokenSource(ctx, &token),
		last: token.AccessToken,
		save: func(t *oauth2.Token) {
			if err := c.saveToken(context.WithoutCancel(ctx), t); err != nil {
				c.log.With(sl.Err(err)).Warn("persist refreshed token")
			}
		},
	}
	return oauth2.NewClient(ctx, src), nil
}

type savingTokenSource struct {
	mu   sync.Mutex
	base oauth2.TokenSource
	last string
	save func(*oauth2.Token)
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.AccessToken != s.last {
		s.last = t.AccessToken
		s.save(t)
	}
	return t, nil
}
