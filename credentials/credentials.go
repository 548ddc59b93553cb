// Package credentials resolves the Granola API access token. Tokens come
// from the environment, the OS keyring, or the desktop app's auth file, in
// that order.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/zalando/go-keyring"
)

// Keyring coordinates for the stored token.
const (
	KeyringService = "granola-cli"
	KeyringUser    = "access-token"
)

// EnvToken is the environment variable that overrides every other source.
const EnvToken = "GRANOLA_TOKEN"

var (
	// ErrAuthFileMissing indicates the desktop app's auth file does not
	// exist, usually because the app is not installed on this machine.
	ErrAuthFileMissing = errors.New("auth file not found")

	// ErrNoToken indicates no source produced a token.
	ErrNoToken = errors.New("no access token available")
)

// Source identifies where a token came from.
type Source string

const (
	SourceEnv      Source = "environment"
	SourceKeyring  Source = "keyring"
	SourceAuthFile Source = "auth file"
)

// Token is a resolved access token. ObtainedAt and ExpiresIn are only known
// for auth-file tokens; zero values mean the expiry cannot be judged.
type Token struct {
	Value      string
	Source     Source
	ObtainedAt time.Time
	ExpiresIn  time.Duration
}

// MaybeExpired reports whether the token's recorded lifetime has elapsed.
// Tokens without expiry information are never reported as expired.
func (t Token) MaybeExpired(now time.Time) bool {
	if t.ObtainedAt.IsZero() || t.ExpiresIn <= 0 {
		return false
	}
	return now.After(t.ObtainedAt.Add(t.ExpiresIn))
}

// Resolve returns the access token, trying the environment, then the
// keyring, then the desktop app's auth file. Keyring errors fall through to
// the auth file; only an unusable auth file surfaces as an error.
func Resolve(authFile string) (Token, error) {
	if v := os.Getenv(EnvToken); v != "" {
		return Token{Value: v, Source: SourceEnv}, nil
	}

	if v, err := keyring.Get(KeyringService, KeyringUser); err == nil && v != "" {
		return Token{Value: v, Source: SourceKeyring}, nil
	}

	return FromAuthFile(authFile)
}

// workosTokens is the payload embedded as a JSON string inside the auth
// file's workos_tokens field. obtained_at is unix milliseconds.
type workosTokens struct {
	AccessToken string  `json:"access_token"`
	ObtainedAt  float64 `json:"obtained_at"`
	ExpiresIn   float64 `json:"expires_in"`
}

// FromAuthFile extracts the access token from the desktop app's supabase
// auth file. The token lives in a doubly-encoded workos_tokens field: a JSON
// string whose content is itself a JSON object.
func FromAuthFile(path string) (Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Token{}, fmt.Errorf("%w: %s", ErrAuthFileMissing, path)
		}
		return Token{}, fmt.Errorf("reading auth file: %w", err)
	}

	var envelope struct {
		WorkosTokens string `json:"workos_tokens"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Token{}, fmt.Errorf("parsing auth file: %w", err)
	}
	if envelope.WorkosTokens == "" {
		return Token{}, fmt.Errorf("%w: auth file has no workos_tokens", ErrNoToken)
	}

	var tokens workosTokens
	if err := json.Unmarshal([]byte(envelope.WorkosTokens), &tokens); err != nil {
		return Token{}, fmt.Errorf("parsing workos_tokens: %w", err)
	}
	if tokens.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: auth file has no access_token", ErrNoToken)
	}

	t := Token{Value: tokens.AccessToken, Source: SourceAuthFile}
	if tokens.ObtainedAt > 0 {
		t.ObtainedAt = time.UnixMilli(int64(tokens.ObtainedAt)).UTC()
	}
	if tokens.ExpiresIn > 0 {
		t.ExpiresIn = time.Duration(tokens.ExpiresIn * float64(time.Second))
	}
	return t, nil
}

// StoreInKeyring saves a token override in the OS keyring.
func StoreInKeyring(token string) error {
	if err := keyring.Set(KeyringService, KeyringUser, token); err != nil {
		return fmt.Errorf("storing token in keyring: %w", err)
	}
	return nil
}

// ClearKeyring removes the keyring token override. A missing entry is not
// an error.
func ClearKeyring() error {
	err := keyring.Delete(KeyringService, KeyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clearing keyring token: %w", err)
	}
	return nil
}

// KeyringToken returns the keyring token override, if present.
func KeyringToken() (string, bool) {
	v, err := keyring.Get(KeyringService, KeyringUser)
	return v, err == nil && v != ""
}

// MaskToken renders a token safe for display, keeping only a short prefix
// and suffix.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return "****"
	}
	return token[:6] + "..." + token[len(token)-4:]
}
