package client

import (
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Authentication types.
const (
	AuthDeveloperToken = "token"
	AuthCCG            = "ccg"
	AuthJWT            = "jwt"
)

const (
	defaultBaseURL  = "https://api.box.com/2.0"
	defaultTokenURL = "https://api.box.com/oauth2/token"
	defaultTimeout  = 30 * time.Second
)

// Config holds the client configuration.
// The hcl tags let the gateway embed it in its own configuration file.
type Config struct {
	BaseURL        string `mapstructure:"base_url" hcl:"base_url"`
	TokenURL       string `mapstructure:"token_url" hcl:"token_url"`
	AuthType       string `mapstructure:"auth_type" hcl:"auth_type"`
	DeveloperToken string `mapstructure:"developer_token" hcl:"developer_token"`
	ClientID       string `mapstructure:"client_id" hcl:"client_id"`
	ClientSecret   string `mapstructure:"client_secret" hcl:"client_secret"`
	SubjectType    string `mapstructure:"subject_type" hcl:"subject_type"`
	SubjectID      string `mapstructure:"subject_id" hcl:"subject_id"`
	PublicKeyID    string `mapstructure:"public_key_id" hcl:"public_key_id"`
	PrivateKey     string `mapstructure:"private_key" hcl:"private_key"`
	Timeout        string `mapstructure:"timeout" hcl:"timeout"`
	SkipTLSVerify  bool   `mapstructure:"skip_tls_verify" hcl:"skip_tls_verify"`
	ParentFolderID string `mapstructure:"parent_folder_id" hcl:"parent_folder_id"`
}

// SetDefaults fills in unset fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.TokenURL == "" {
		c.TokenURL = defaultTokenURL
	}
	if c.AuthType == "" {
		c.AuthType = AuthDeveloperToken
	}
	if c.SubjectType == "" {
		c.SubjectType = "enterprise"
	}
}

func (c *Config) timeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

func setDefaults(v *viper.Viper) {
	for _, name := range []string{"base_url", "parent_folder_id"} {
		if f := pflag.Lookup(name); f != nil {
			v.BindPFlag(name, f)
		}
	}
	v.SetDefault("base_url", defaultBaseURL)
	v.SetDefault("token_url", defaultTokenURL)
	v.SetDefault("auth_type", AuthDeveloperToken)
	v.SetDefault("subject_type", "enterprise")
	v.SetDefault("timeout", defaultTimeout.String())
}

// ReadConfig reads the client configuration from a file into a Config struct.
// The BOX_DEVELOPER_TOKEN environment variable overrides developer_token.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.BindEnv("developer_token", "BOX_DEVELOPER_TOKEN")
	v.SetConfigFile(path)
	v.SetConfigType("hcl")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "unable to read config from %s", path)
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "unable to parse config")
	}
	p, err := homedir.Expand(c.PrivateKey)
	if err != nil {
		return nil, err
	}
	c.PrivateKey = p
	return c, nil
}
