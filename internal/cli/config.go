package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string `env:"CHARVAULT_SERVER"     envDefault:"http://localhost:8080"`
	Token     string `env:"CHARVAULT_TOKEN"`
	TokenFile string `env:"CHARVAULT_TOKEN_FILE"`
	Output    string `env:"CHARVAULT_OUTPUT"     envDefault:"text"`
	Verbose   bool

	// SessionExpired is set when the saved login was found but had expired
	SessionExpired bool
}

// ErrSessionExpired is returned when the saved login has passed its expiry.
var ErrSessionExpired = errors.New("saved login has expired; run 'charvault account login'")

// savedSession is what login writes to the token file
type savedSession struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DefaultConfig reads CLI settings from the environment
func DefaultConfig() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return &Config{ServerURL: "http://localhost:8080", Output: "text", TokenFile: defaultTokenFile()},
			fmt.Errorf("read environment: %w", err)
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = defaultTokenFile()
	}
	return &cfg, nil
}

// LoadToken fills Token from the saved session unless a token was given
// explicitly. A missing file means no login. An expired session is not
// loaded and only flags SessionExpired.
func (c *Config) LoadToken(now time.Time) error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read token file: %w", err)
	}

	var s savedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("token file %s is not a saved login: %w", c.TokenFile, err)
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		c.SessionExpired = true
		return nil
	}

	c.Token = s.Token
	return nil
}

// SaveSession writes a successful login to the token file, readable only by
// the current user
func (c *Config) SaveSession(token, accountID string, expiresAt time.Time) error {
	c.Token = token

	data, err := json.Marshal(savedSession{Token: token, AccountID: accountID, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, data, 0600)
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".charvault", "session.json")
	}
	return filepath.Join(home, ".charvault", "session.json")
}
