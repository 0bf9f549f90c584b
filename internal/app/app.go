package app

import (
	"time"

	"go.uber.org/zap"
)

// Application wires the backend client and the live session together. The
// identity provider is injected as a TokenSource; core logic never touches
// authentication state directly.
type Application struct {
	Config  Config
	Logger  *zap.Logger
	Client  *Client
	Session *Session
}

func NewApplication(cfg Config, tokens TokenSource, logger *zap.Logger) *Application {
	if logger == nil {
		logger = NewLogger()
	}
	client := NewClient(cfg.BaseURL, tokens, time.Duration(cfg.HTTPTimeoutSec)*time.Second)
	return &Application{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: NewSession(client),
	}
}

// GreetingName resolves the name used in the new-session greeting: the
// configured override wins, then the signed-in display name.
func (a *Application) GreetingName(displayName string) string {
	if a.Config.GreetingName != "" {
		return a.Config.GreetingName
	}
	return displayName
}
