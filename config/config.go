// Package config loads the JSON config file, applies environment-variable
// overrides, and enforces per-transport credential requirements.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LLMConfig configures the generation-API client.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// SMTPConfig configures the post-by-email SMTP account.
type SMTPConfig struct {
	User        string `json:"user,omitempty"`
	AppPassword string `json:"app_password,omitempty"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
}

// SendGridConfig configures the transactional-mail carrier.
type SendGridConfig struct {
	APIKey string `json:"api_key,omitempty"`
	From   string `json:"from,omitempty"`
}

// GenerationConfig tunes the article generator.
type GenerationConfig struct {
	Policy          string `json:"policy,omitempty"`
	MaxOutputTokens int64  `json:"max_output_tokens,omitempty"`
	MaxRetries      int    `json:"max_retries,omitempty"`
	LooseTopics     bool   `json:"loose_topics,omitempty"`
}

// Config is the full configuration surface. Environment variables override
// file values so credentials can stay out of the file.
type Config struct {
	Site        string           `json:"site"`
	Username    string           `json:"username,omitempty"`
	AppPassword string           `json:"app_password,omitempty"`
	PostByEmail string           `json:"post_by_email_address,omitempty"`
	LogPath     string           `json:"log_path,omitempty"`
	LLM         LLMConfig        `json:"llm"`
	SMTP        SMTPConfig       `json:"smtp"`
	SendGrid    SendGridConfig   `json:"sendgrid"`
	Generation  GenerationConfig `json:"generation"`
}

const (
	defaultLogPath  = "publish_log.jsonl"
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 465
)

// Load reads JSON config from disk. A missing file is not an error; env
// vars alone can carry a full configuration.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrideFromEnv(&c.Site, "WP_SITE")
	overrideFromEnv(&c.Username, "WP_USER")
	overrideFromEnv(&c.AppPassword, "WORDPRESS_TOKEN")
	overrideFromEnv(&c.PostByEmail, "WP_EMAIL_ADDRESS")
	overrideFromEnv(&c.LLM.APIKey, "LLM_API_KEY")
	overrideFromEnv(&c.SMTP.User, "GMAIL_USER")
	overrideFromEnv(&c.SMTP.AppPassword, "GMAIL_APP_PASSWORD")
	overrideFromEnv(&c.SendGrid.APIKey, "SENDGRID_API_KEY")
	overrideFromEnv(&c.SendGrid.From, "SENDGRID_FROM")
}

func (c *Config) applyDefaults() {
	if c.LogPath == "" {
		c.LogPath = defaultLogPath
	}
	if c.SMTP.Host == "" {
		c.SMTP.Host = defaultSMTPHost
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = defaultSMTPPort
	}
}

func overrideFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// ValidateBase checks the settings every run needs: the site URL and the
// generation API credentials.
func (c Config) ValidateBase() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Site, validation.Required, is.URL),
		validation.Field(&c.LLM, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.LLM,
				validation.Field(&c.LLM.APIKey, validation.Required.Error("llm api key is required (llm.api_key or LLM_API_KEY)")),
				validation.Field(&c.LLM.Model, validation.Required.Error("llm model is required")),
			)
		})),
	)
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	return nil
}

// ValidateFor checks credentials required by the named transport
// ("xmlrpc", "rest", "email", "sendgrid"). Missing settings are a startup
// error, distinct from content-quality failures.
func (c Config) ValidateFor(transport string) error {
	var err error
	switch transport {
	case "xmlrpc", "rest":
		err = validation.ValidateStruct(&c,
			validation.Field(&c.Username, validation.Required.Error("username is required (username or WP_USER)")),
			validation.Field(&c.AppPassword, validation.Required.Error("application password is required (app_password or WORDPRESS_TOKEN)")),
		)
	case "email":
		err = validation.ValidateStruct(&c,
			validation.Field(&c.PostByEmail, validation.Required.Error("post-by-email address is required (WP_EMAIL_ADDRESS)"), is.EmailFormat),
			validation.Field(&c.SMTP, validation.By(func(interface{}) error {
				return validation.ValidateStruct(&c.SMTP,
					validation.Field(&c.SMTP.User, validation.Required.Error("smtp user is required (GMAIL_USER)")),
					validation.Field(&c.SMTP.AppPassword, validation.Required.Error("smtp app password is required (GMAIL_APP_PASSWORD)")),
				)
			})),
		)
	case "sendgrid":
		err = validation.ValidateStruct(&c,
			validation.Field(&c.PostByEmail, validation.Required.Error("post-by-email address is required (WP_EMAIL_ADDRESS)"), is.EmailFormat),
			validation.Field(&c.SendGrid, validation.By(func(interface{}) error {
				return validation.ValidateStruct(&c.SendGrid,
					validation.Field(&c.SendGrid.APIKey, validation.Required.Error("sendgrid api key is required (SENDGRID_API_KEY)")),
					validation.Field(&c.SendGrid.From, validation.Required.Error("sendgrid verified sender is required (SENDGRID_FROM)"), is.EmailFormat),
				)
			})),
		)
	default:
		return fmt.Errorf("configuration: unknown transport %q", transport)
	}
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	return nil
}

// EmailCarrier picks the configured email mechanism: SMTP when an SMTP
// account is present, otherwise SendGrid.
func (c Config) EmailCarrier() string {
	if c.SMTP.User != "" || c.SendGrid.APIKey == "" {
		return "email"
	}
	return "sendgrid"
}
