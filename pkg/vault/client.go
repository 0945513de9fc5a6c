// Package vault wraps the HashiCorp Vault API client for Transit
// encrypt/decrypt operations.
package vault

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

// Config holds the Vault connection settings.
type Config struct {
	Addr       string
	Token      string
	Namespace  string
	CACert     string
	SkipVerify bool
	Timeout    time.Duration
}

// ConfigFromEnv fills token and address from the standard VAULT_*
// environment variables when not already set.
func (c *Config) ConfigFromEnv() {
	if c.Addr == "" {
		c.Addr = os.Getenv("VAULT_ADDR")
	}
	if c.Token == "" {
		c.Token = os.Getenv("VAULT_TOKEN")
	}
	if c.Namespace == "" {
		c.Namespace = os.Getenv("VAULT_NAMESPACE")
	}
	if c.Timeout == 0 {
		c.Timeout = 15 * time.Second
	}
}

// Client wraps the Vault API client with transit functionality.
type Client struct {
	client  *vaultapi.Client
	timeout time.Duration
}

// NewClient creates an authenticated Vault client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("vault address is required (set [vault].addr or VAULT_ADDR)")
	}
	if cfg.Token == "" {
		return nil, errors.New("vault token is required (set VAULT_TOKEN)")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	vaultConfig := vaultapi.DefaultConfig()
	vaultConfig.Address = cfg.Addr
	vaultConfig.Timeout = cfg.Timeout

	if cfg.CACert != "" || cfg.SkipVerify {
		err := vaultConfig.ConfigureTLS(&vaultapi.TLSConfig{
			CACert:   cfg.CACert,
			Insecure: cfg.SkipVerify,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := vaultapi.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}
	client.SetToken(cfg.Token)

	// Configure TLS properly
	if tr, ok := vaultConfig.HttpClient.Transport.(*http.Transport); ok && tr.TLSClientConfig == nil {
		tr.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return &Client{client: client, timeout: cfg.Timeout}, nil
}

// TransitEncrypt encrypts plaintext using Vault's Transit secrets engine.
func (c *Client) TransitEncrypt(transitMount, keyName string, plaintext []byte) (string, error) {
	if keyName == "" {
		return "", errors.New("transit key name required")
	}

	b64 := base64.StdEncoding.EncodeToString(plaintext)
	path := fmt.Sprintf("%s/encrypt/%s", strings.TrimSuffix(transitMount, "/"), keyName)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	secret, err := c.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"plaintext": b64,
	})
	if err != nil {
		return "", fmt.Errorf("transit encrypt failed: %w", err)
	}

	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok || ciphertext == "" {
		return "", errors.New("ciphertext missing in transit response")
	}

	return ciphertext, nil
}

// TransitDecrypt decrypts ciphertext using Vault's Transit secrets engine.
func (c *Client) TransitDecrypt(transitMount, keyName, ciphertext string) ([]byte, error) {
	if keyName == "" {
		return nil, errors.New("transit key name required")
	}

	path := fmt.Sprintf("%s/decrypt/%s", strings.TrimSuffix(transitMount, "/"), keyName)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	secret, err := c.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"ciphertext": ciphertext,
	})
	if err != nil {
		return nil, fmt.Errorf("transit decrypt failed: %w", err)
	}

	b64, ok := secret.Data["plaintext"].(string)
	if !ok || b64 == "" {
		return nil, errors.New("plaintext missing in transit response")
	}

	dec, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plaintext: %w", err)
	}

	return dec, nil
}
