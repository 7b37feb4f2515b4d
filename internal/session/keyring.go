package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	// ServiceName is the keyring service vaultpick stores its token under.
	ServiceName = "vaultpick"
	// KeyName is the keyring key holding the session token.
	KeyName = "op-session"
	// KeyringPasswordEnvVarName sets the file keyring passphrase for headless setups.
	KeyringPasswordEnvVarName = "VAULTPICK_KEYRING_PASSWORD"
)

// Store is the subset of keyring.Keyring the session source needs.
type Store interface {
	Get(key string) (keyring.Item, error)
	Set(item keyring.Item) error
	Remove(key string) error
}

// OpenKeyring opens the OS keyring, falling back to an encrypted file under
// fileDir on Linux sessions without a D-Bus secret service.
func OpenKeyring(fileDir string) (Store, error) {
	cfg := keyring.Config{
		ServiceName:                    ServiceName,
		KeychainTrustApplication:       true,
		KeychainSynchronizable:         false,
		KeychainAccessibleWhenUnlocked: true,
		FileDir:                        fileDir,
		FilePasswordFunc: func(string) (string, error) {
			if pw := strings.TrimSpace(os.Getenv(KeyringPasswordEnvVarName)); pw != "" {
				return pw, nil
			}
			return ServiceName, nil
		},
	}
	if runtime.GOOS == "linux" && strings.TrimSpace(os.Getenv("DBUS_SESSION_BUS_ADDRESS")) == "" {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

// KeyringSource reads a token previously saved with StoreToken.
type KeyringSource struct {
	Open func() (Store, error)
}

// Name implements Source.
func (s KeyringSource) Name() string { return SourceKeyring }

// Token implements Source.
func (s KeyringSource) Token(context.Context) (Token, error) {
	store, err := s.Open()
	if err != nil {
		return "", err
	}
	item, err := store.Get(KeyName)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotSignedIn
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session from keyring: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotSignedIn
	}
	return Token(item.Data), nil
}

// StoreToken saves token for KeyringSource.
func StoreToken(store Store, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	err := store.Set(keyring.Item{
		Key:   KeyName,
		Label: "vaultpick session token",
		Data:  []byte(token),
	})
	if err != nil {
		return fmt.Errorf("failed to store session in keyring: %w", err)
	}
	return nil
}

// ForgetToken removes the stored token. A missing token is not an error.
func ForgetToken(store Store) error {
	err := store.Remove(KeyName)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove session from keyring: %w", err)
	}
	return nil
}
