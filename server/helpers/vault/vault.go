package vault

import (
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
)

// Prefix marks configuration values and file names which live in vault.
const Prefix = "/vault/"

// Logical is the subset of the vault logical backend used by Client.
type Logical interface {
	Read(path string) (*api.Secret, error)
	Delete(path string) (*api.Secret, error)
}

// NewClient returns a new vault client.
func NewClient(address, token string) (*Client, error) {
	config := &api.Config{
		Address: address,
	}
	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)
	return New(client.Logical()), nil
}

// New returns a Client reading from l.
func New(l Logical) *Client {
	return &Client{logical: l}
}

func parseName(name string) (path, key string) {
	name = strings.TrimPrefix(name, Prefix)
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i+1:]
}

// Client is a simple client for vault.
type Client struct {
	logical Logical
}

// Read returns a secret for a given path and key of the form `/vault/secret/path/key`.
// Secrets in a KV version 2 engine are read from the nested data map.
// If the requested key cannot be read the original string is returned along with an error.
func (c *Client) Read(value string) (string, error) {
	p, k := parseName(value)
	secret, err := c.logical.Read(p)
	if err != nil {
		return value, err
	}
	if secret == nil || secret.Data == nil {
		return value, fmt.Errorf("no such key %s", k)
	}
	data := secret.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}
	v, ok := data[k]
	if !ok {
		return value, fmt.Errorf("no such key %s", k)
	}
	s, ok := v.(string)
	if !ok {
		return value, fmt.Errorf("key %s is a %T, not a string", k, v)
	}
	return s, nil
}

// Resolve returns the secret named by value if it carries the vault prefix,
// and value itself otherwise.
func (c *Client) Resolve(value string) (string, error) {
	if !strings.HasPrefix(value, Prefix) {
		return value, nil
	}
	return c.Read(value)
}

// Delete deletes the secret from vault.
func (c *Client) Delete(value string) error {
	p, _ := parseName(value)
	_, err := c.logical.Delete(p)
	return err
}
