package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"

	"github.com/signgate/signgate/client"
	"github.com/signgate/signgate/lib"
	"github.com/signgate/signgate/server/helpers/vault"
)

// Config holds the final server configuration.
type Config struct {
	Server   *Server        `hcl:"server"`
	Box      *client.Config `hcl:"box"`
	Defaults *Defaults      `hcl:"defaults"`
	AWS      *AWS           `hcl:"aws"`
	Vault    *Vault         `hcl:"vault"`
}

// Database holds database configuration.
type Database struct {
	Type     string `hcl:"type"`
	DBName   string `hcl:"dbname"`
	Address  string `hcl:"address"`
	Username string `hcl:"username"`
	Password string `hcl:"password"`
	Filename string `hcl:"filename"`
}

// Server holds the configuration specific to the web server.
type Server struct {
	UseTLS                bool              `hcl:"use_tls"`
	TLSKey                string            `hcl:"tls_key"`
	TLSCert               string            `hcl:"tls_cert"`
	LetsEncryptServername string            `hcl:"letsencrypt_servername"`
	LetsEncryptCache      string            `hcl:"letsencrypt_cachedir"`
	Addr                  string            `hcl:"address"`
	Port                  int               `hcl:"port"`
	User                  string            `hcl:"user"`
	HTTPLogFile           string            `hcl:"http_logfile"`
	Database              Database          `hcl:"database"`
	ShutdownTimeout       string            `hcl:"shutdown_timeout"`
	APIKeys               map[string]string `hcl:"api_keys"`
}

// Defaults are applied to incoming sign requests which leave the
// corresponding option unset.
type Defaults struct {
	DaysValid           *int   `hcl:"days_valid"`
	AreRemindersEnabled *bool  `hcl:"are_reminders_enabled"`
	SignatureColor      string `hcl:"signature_color"`
	EmailSubject        string `hcl:"email_subject"`
	ParentFolderID      string `hcl:"parent_folder_id"`
}

// AWS holds Amazon AWS configuration.
// AWS can also be configured using SDK methods.
type AWS struct {
	Region    string `hcl:"region"`
	AccessKey string `hcl:"access_key"`
	SecretKey string `hcl:"secret_key"`
}

// Vault holds Hashicorp Vault configuration.
type Vault struct {
	Address string `hcl:"address"`
	Token   string `hcl:"token"`
}

func verifyConfig(c *Config) error {
	var err error
	if c.Server == nil {
		err = multierror.Append(err, errors.New("missing server config section"))
	}
	if c.Box == nil {
		err = multierror.Append(err, errors.New("missing box config section"))
	}
	return err
}

func setFromEnvironment(c *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		c.Server.Port = port
	}
	if os.Getenv("BOX_CLIENT_ID") != "" {
		c.Box.ClientID = os.Getenv("BOX_CLIENT_ID")
	}
	if os.Getenv("BOX_CLIENT_SECRET") != "" {
		c.Box.ClientSecret = os.Getenv("BOX_CLIENT_SECRET")
	}
	if os.Getenv("BOX_DEVELOPER_TOKEN") != "" {
		c.Box.DeveloperToken = os.Getenv("BOX_DEVELOPER_TOKEN")
	}
}

func setFromVault(c *Config) error {
	if c.Vault == nil || c.Vault.Token == "" || c.Vault.Address == "" {
		return nil
	}
	v, err := vault.NewClient(c.Vault.Address, c.Vault.Token)
	if err != nil {
		return fmt.Errorf("vault error: %w", err)
	}
	var errs *multierror.Error
	get := func(value string) string {
		s, err := v.Resolve(value)
		if err != nil {
			errs = multierror.Append(errs, err)
		}
		return s
	}
	c.Box.ClientID = get(c.Box.ClientID)
	c.Box.ClientSecret = get(c.Box.ClientSecret)
	c.Box.DeveloperToken = get(c.Box.DeveloperToken)
	c.Server.Database.Password = get(c.Server.Database.Password)
	for name, key := range c.Server.APIKeys {
		c.Server.APIKeys[name] = get(key)
	}
	if c.AWS != nil {
		c.AWS.AccessKey = get(c.AWS.AccessKey)
		c.AWS.SecretKey = get(c.AWS.SecretKey)
	}
	return errs.ErrorOrNil()
}

// ReadConfig parses a hcl configuration file into a Config struct.
func ReadConfig(f string) (*Config, error) {
	config := &Config{}
	bs, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read config from file %s: %w", f, err)
	}
	if err := hcl.Unmarshal(bs, config); err != nil {
		return nil, fmt.Errorf("error parsing config: %v", err)
	}
	if err := verifyConfig(config); err != nil {
		return nil, fmt.Errorf("unable to verify config: %w", err)
	}
	if err := setFromVault(config); err != nil {
		return nil, err
	}
	setFromEnvironment(config)
	if config.Defaults == nil {
		config.Defaults = &Defaults{}
	}
	if c := config.Defaults.SignatureColor; c != "" {
		if _, err := lib.ParseSignatureColor(c); err != nil {
			return nil, fmt.Errorf("invalid defaults: %w", err)
		}
	}
	if config.Server.ShutdownTimeout == "" {
		config.Server.ShutdownTimeout = "10s"
	}
	config.Box.SetDefaults()
	return config, nil
}
