// Package config loads and stores the credentials daily-git reports with.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	// KeyToken is the configuration key of the personal access token.
	KeyToken = "token"
	// KeyUsername is the configuration key of the reported GitHub user.
	KeyUsername = "username"

	// KeyringService is the service name in the OS keychain.
	KeyringService = "daily-git"
)

var (
	// ErrMissingToken is returned by Validate when no token is configured.
	ErrMissingToken = errors.New("token is missing (https://github.com/settings/tokens/new)! Set it via:\n\tdaily-git config set token <TOKEN>")
	// ErrMissingUsername is returned by Validate when no username is configured.
	ErrMissingUsername = errors.New("username is missing! Set it via:\n\tdaily-git config set username <USERNAME>")
	// ErrUnknownKey is returned by Set for keys other than token and username.
	ErrUnknownKey = errors.New("unsupported key (supported: token, username)")
)

// Config holds the credentials of one report run. It is not modified after loading.
type Config struct {
	Token    string
	Username string
}

// Validate reports the first missing credential.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Username == "" {
		return ErrMissingUsername
	}
	return nil
}

// MaskedToken returns the token with everything but its last four characters hidden.
func (c Config) MaskedToken() string {
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", len(c.Token)-4) + c.Token[len(c.Token)-4:]
}

// DefaultFile returns ~/.config/daily-git/config.yaml.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "daily-git", "config.yaml"), nil
}

// Load resolves the credentials from, in order of precedence, the environment
// (including a .env file in the working directory), the config file and,
// for the token only, the OS keychain. A missing config file is not an error.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := newViper(file)
	if err := v.BindEnv(KeyToken, "DAILY_GIT_TOKEN", "GITHUB_TOKEN"); err != nil {
		return Config{}, err
	}
	if err := v.BindEnv(KeyUsername, "DAILY_GIT_USERNAME"); err != nil {
		return Config{}, err
	}
	if err := readConfig(v); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Token:    strings.TrimSpace(v.GetString(KeyToken)),
		Username: strings.TrimSpace(v.GetString(KeyUsername)),
	}
	if cfg.Token == "" {
		// An unavailable keychain leaves the token empty; Validate reports it.
		if token, err := keyring.Get(KeyringService, KeyToken); err == nil {
			cfg.Token = strings.TrimSpace(token)
		}
	}
	return cfg, nil
}

// Set stores a single configuration value and returns where it was stored.
// The token goes to the OS keychain when one is available, otherwise to the config file.
func Set(file, key, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	switch key {
	case KeyToken:
		if err := keyring.Set(KeyringService, KeyToken, value); err == nil {
			return "OS keychain", nil
		}
	case KeyUsername:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	if err := writeKey(file, key, value); err != nil {
		return "", err
	}
	return file, nil
}

func writeKey(file, key, value string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := newViper(file)
	if err := readConfig(v); err != nil {
		return err
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Chmod(file, 0o600)
}

func newViper(file string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyUsername, "")
	return v
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
