// Package config handles resolution and validation of Bitbucket connection settings.
//
// Settings come from environment variables first, with an optional YAML file
// (~/.config/bitbucket-mcp/config.yml) filling in anything the environment
// leaves unset. [Resolve] turns the merged raw settings into an immutable
// [PlatformConfig]; nothing downstream ever re-reads the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sgaunet/bullets"
	"gopkg.in/yaml.v3"

	"github.com/scm-tools/bitbucket-mcp/internal/security"
	"github.com/scm-tools/bitbucket-mcp/internal/urlutil"
)

var (
	errMissingBaseURL       = errors.New("base URL is required (set BITBUCKET_URL)")
	errCloudUsername        = errors.New("username is required for Bitbucket Cloud")
	errCloudCredentials     = errors.New("a token or an app password is required for Bitbucket Cloud")
	errServerCredentials    = errors.New("a token or a username+password pair is required for Bitbucket Server/Data Center")
	errInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidConfiguration wraps every configuration failure so callers
	// can distinguish startup errors from per-request ones.
	ErrInvalidConfiguration = errInvalidConfiguration
	// ErrMissingBaseURL is returned when no base URL is configured.
	ErrMissingBaseURL = errMissingBaseURL
	// ErrCloudUsername is returned when Cloud is detected but no username resolves.
	ErrCloudUsername = errCloudUsername
	// ErrCloudCredentials is returned when Cloud has neither token nor app password.
	ErrCloudCredentials = errCloudCredentials
	// ErrServerCredentials is returned when Server/Data Center has no usable credentials.
	ErrServerCredentials = errServerCredentials
)

// tokenUsername is the basic-auth username Bitbucket Cloud accepts when the
// password slot carries an access token and no real username is configured.
const tokenUsername = "x-token-auth"

// PlatformType identifies which REST dialect the configured instance speaks.
type PlatformType string

// Platform variants. Server and Data Center share one request-shaping path
// and differ only in diagnostic text.
const (
	PlatformCloud      PlatformType = "cloud"
	PlatformServer     PlatformType = "server"
	PlatformDatacenter PlatformType = "datacenter"
)

// ContextKey returns the argument name that scopes repositories on this
// platform: "workspace" on Cloud, "project" on Server/Data Center.
func (p PlatformType) ContextKey() string {
	if p == PlatformCloud {
		return "workspace"
	}
	return "project"
}

// IsCloud reports whether this is the hosted multi-tenant platform.
func (p PlatformType) IsCloud() bool {
	return p == PlatformCloud
}

// RawSettings is the unvalidated input to [Resolve], merged from the
// environment and the optional config file.
type RawSettings struct {
	BaseURL        string `yaml:"base_url"`
	Platform       string `yaml:"platform"` // optional refinement: "server" or "datacenter"
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	Token          string `yaml:"token"`
	DefaultContext string `yaml:"default_context"`
}

// Credentials holds the resolved auth material. Secrets are wrapped so they
// cannot leak through formatting.
type Credentials struct {
	Username string
	Password security.SecureToken
	Token    security.SecureToken
}

// PlatformConfig is the validated, immutable configuration every other
// component reads. Constructed once at startup; never mutated afterwards.
type PlatformConfig struct {
	BaseURL        string
	Platform       PlatformType
	Credentials    Credentials
	DefaultContext string
}

// Resolve validates raw settings and produces a [PlatformConfig].
//
// Platform detection: a base URL on bitbucket.org means Cloud; anything else
// is Server, refined to Data Center only when the operator says so. No
// network I/O happens here, and identical input always yields an identical
// result.
func Resolve(raw RawSettings, log *bullets.Logger) (*PlatformConfig, error) {
	if raw.BaseURL == "" {
		return nil, fmt.Errorf("%w: %w", errInvalidConfiguration, errMissingBaseURL)
	}
	baseURL, err := urlutil.NormalizeBase(raw.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q", errInvalidConfiguration, err, raw.BaseURL)
	}

	platform := PlatformServer
	if urlutil.IsCloudHost(baseURL) {
		platform = PlatformCloud
	} else if raw.Platform == string(PlatformDatacenter) {
		platform = PlatformDatacenter
	}

	username := raw.Username
	if platform == PlatformCloud {
		if raw.Token == "" && raw.Password == "" {
			return nil, fmt.Errorf("%w: %w", errInvalidConfiguration, errCloudCredentials)
		}
		// Cloud auth is always HTTP basic; a bare token rides in the
		// password slot under the x-token-auth username.
		if username == "" && raw.Token != "" {
			username = tokenUsername
		}
		if username == "" {
			return nil, fmt.Errorf("%w: %w", errInvalidConfiguration, errCloudUsername)
		}
		if raw.Token != "" && raw.Password != "" && log != nil {
			log.Warn("both a token and an app password are configured; the token takes precedence")
		}
	} else {
		if raw.Token == "" && (raw.Username == "" || raw.Password == "") {
			return nil, fmt.Errorf("%w: %w", errInvalidConfiguration, errServerCredentials)
		}
	}

	return &PlatformConfig{
		BaseURL:  baseURL,
		Platform: platform,
		Credentials: Credentials{
			Username: username,
			Password: security.NewSecureToken(raw.Password),
			Token:    security.NewSecureToken(raw.Token),
		},
		DefaultContext: raw.DefaultContext,
	}, nil
}

// FromEnv reads raw settings from BITBUCKET_* environment variables.
func FromEnv() RawSettings {
	password := os.Getenv("BITBUCKET_PASSWORD")
	if password == "" {
		password = os.Getenv("BITBUCKET_APP_PASSWORD")
	}
	defaultContext := os.Getenv("BITBUCKET_DEFAULT_WORKSPACE")
	if defaultContext == "" {
		defaultContext = os.Getenv("BITBUCKET_DEFAULT_PROJECT")
	}
	return RawSettings{
		BaseURL:        os.Getenv("BITBUCKET_URL"),
		Platform:       os.Getenv("BITBUCKET_PLATFORM"),
		Username:       os.Getenv("BITBUCKET_USERNAME"),
		Password:       password,
		Token:          os.Getenv("BITBUCKET_TOKEN"),
		DefaultContext: defaultContext,
	}
}

// LoadFile reads raw settings from a YAML file. A missing file is not an
// error; it returns zero settings so the environment alone can be enough.
func LoadFile(path string) (RawSettings, error) {
	// #nosec G304 - Reading config from the user's home directory is intentional
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RawSettings{}, nil
		}
		return RawSettings{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw RawSettings
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return RawSettings{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return raw, nil
}

// DefaultConfigPath returns ~/.config/bitbucket-mcp/config.yml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "bitbucket-mcp", "config.yml"), nil
}

// Load merges the environment over the optional config file and resolves the
// result. Environment values win field by field.
func Load(log *bullets.Logger) (*PlatformConfig, error) {
	raw := RawSettings{}
	if path, err := DefaultConfigPath(); err == nil {
		if fileRaw, err := LoadFile(path); err == nil {
			raw = fileRaw
		} else if log != nil {
			log.Warn(fmt.Sprintf("ignoring config file: %v", err))
		}
	}

	env := FromEnv()
	if env.BaseURL != "" {
		raw.BaseURL = env.BaseURL
	}
	if env.Platform != "" {
		raw.Platform = env.Platform
	}
	if env.Username != "" {
		raw.Username = env.Username
	}
	if env.Password != "" {
		raw.Password = env.Password
	}
	if env.Token != "" {
		raw.Token = env.Token
	}
	if env.DefaultContext != "" {
		raw.DefaultContext = env.DefaultContext
	}

	return Resolve(raw, log)
}
