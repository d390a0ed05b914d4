// Package config assembles the run configuration of scanctl from flags, environment, config file and stored
// credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	spfviper "github.com/spf13/viper"

	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/upload"
	"github.com/scanflow/scanctl/internal/viper"
)

// Configuration keys. Each key is also the name of its flag and, upper-cased with the SCANCTL_ prefix, of its
// environment variable.
const (
	KeyURL           = "url"
	KeyRestURL       = "rest-url"
	KeyToken         = "token"
	KeyUsername      = "username"
	KeyPassword      = "password"
	KeyFile          = "file"
	KeyVCS           = "vcs"
	KeyFolder        = "folder"
	KeyGroup         = "group"
	KeyReuse         = "reuse"
	KeyReuseGroup    = "reuse-group"
	KeyTokenScope    = "token-scope"
	KeyTokenValidity = "token-validity"
	KeyPollInterval  = "poll-interval"
	KeyScanOptions   = "scan-options"
	KeyTimeout       = "timeout"
)

// Defaults.
const (
	DefaultFolder        = "Sandbox"
	DefaultReuseGroup    = "fossy"
	DefaultTokenScope    = "write"
	DefaultTokenValidity = 1
	DefaultPollInterval  = time.Second
	DefaultTimeout       = 5 * time.Minute
	// RestPath is appended to the server url when no REST url is configured.
	RestPath = "/api/v1"
	// FileName is the name of the optional config file, without extension.
	FileName = ".scanctl"
)

// Config represents a single upload and scan run.
type Config struct {
	URL      string `mapstructure:"url" yaml:"url"`
	RestURL  string `mapstructure:"rest-url" yaml:"rest-url"`
	Token    string `mapstructure:"token" yaml:"token"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	File string `mapstructure:"file" yaml:"file"`
	VCS  string `mapstructure:"vcs" yaml:"vcs"`

	Folder string `mapstructure:"folder" yaml:"folder"`
	// Group is the id of the group that owns the upload, 0 if unset.
	Group int `mapstructure:"group" yaml:"group"`

	Reuse      bool   `mapstructure:"reuse" yaml:"reuse"`
	ReuseGroup string `mapstructure:"reuse-group" yaml:"reuse-group"`

	TokenScope    string `mapstructure:"token-scope" yaml:"token-scope"`
	TokenValidity int    `mapstructure:"token-validity" yaml:"token-validity"`

	PollInterval time.Duration `mapstructure:"poll-interval" yaml:"poll-interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ScanOptions  string        `mapstructure:"scan-options" yaml:"scan-options"`
}

// SetDefaults registers the default values of all keys, which also makes every key visible to environment lookups.
// Stored credentials act as defaults for the server url and the credentials, so that flags and environment take
// precedence over them.
func SetDefaults(stored iam.Credentials) {
	viper.SetDefault(KeyURL, stored.URL)
	viper.SetDefault(KeyToken, stored.Token)
	viper.SetDefault(KeyUsername, stored.Username)
	viper.SetDefault(KeyPassword, stored.Password)
	viper.SetDefault(KeyRestURL, "")
	viper.SetDefault(KeyFile, "")
	viper.SetDefault(KeyVCS, "")
	viper.SetDefault(KeyGroup, 0)
	viper.SetDefault(KeyReuse, false)
	viper.SetDefault(KeyScanOptions, "")
	viper.SetDefault(KeyFolder, DefaultFolder)
	viper.SetDefault(KeyReuseGroup, DefaultReuseGroup)
	viper.SetDefault(KeyTokenScope, DefaultTokenScope)
	viper.SetDefault(KeyTokenValidity, DefaultTokenValidity)
	viper.SetDefault(KeyPollInterval, DefaultPollInterval)
	viper.SetDefault(KeyTimeout, DefaultTimeout)
}

// Load reads the optional config file and decodes the merged configuration. If cfgPath is empty, a .scanctl.yml is
// looked up in the working directory and the home directory, and a missing file is not an error.
func Load(cfgPath string) (Config, error) {
	if err := readConfigFile(cfgPath); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := viper.Unmarshal(&cfg, func(decodeCfg *mapstructure.DecoderConfig) {
		decodeCfg.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return cfg, nil
}

// readConfigFile merges the config file into the configuration. Environment references in the file are expanded,
// values from flags, environment and stored credentials are passed on as given.
func readConfigFile(cfgPath string) error {
	fv := viper.NewFileReader()
	if cfgPath != "" {
		fv.SetConfigFile(cfgPath)
		if err := fv.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
	} else {
		fv.SetConfigName(FileName)
		fv.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			fv.AddConfigPath(home)
		}
		if err := fv.ReadInConfig(); err != nil {
			var notFound spfviper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	log.Debug().Str("path", fv.ConfigFileUsed()).Msg("Loaded config file.")

	settings, _ := expandEnv(fv.AllSettings()).(map[string]interface{})
	if err := viper.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to merge config file %q: %w", fv.ConfigFileUsed(), err)
	}

	return nil
}

func expandEnv(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []interface{}:
		items := make([]interface{}, 0, len(val))
		for _, item := range val {
			items = append(items, expandEnv(item))
		}
		return items
	case map[string]interface{}:
		for key, item := range val {
			val[key] = expandEnv(item)
		}
		return val
	}
	return v
}

// Validate checks that the configuration describes a runnable upload.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("missing server url: use --url, SCANCTL_URL or 'scanctl configure'")
	}
	if err := c.Target().Validate(); err != nil {
		return err
	}
	if c.TokenValidity <= 0 {
		return fmt.Errorf("invalid token validity %d: must be at least one day", c.TokenValidity)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval %s: must be positive", c.PollInterval)
	}
	if c.Group < 0 {
		return fmt.Errorf("invalid group id %d", c.Group)
	}

	return nil
}

// Target returns the artifact to upload.
func (c Config) Target() upload.Target {
	return upload.Target{File: c.File, VCS: c.VCS}
}

// Credentials returns the credentials to authenticate with.
func (c Config) Credentials() iam.Credentials {
	return iam.Credentials{
		URL:      c.URL,
		Token:    c.Token,
		Username: c.Username,
		Password: c.Password,
	}
}

// RestBase returns the base url of the REST API.
func (c Config) RestBase() string {
	if c.RestURL != "" {
		return c.RestURL
	}
	return strings.TrimSuffix(c.URL, "/") + RestPath
}

// GroupID returns the configured group or nil if none is set.
func (c Config) GroupID() *int {
	if c.Group == 0 {
		return nil
	}
	g := c.Group
	return &g
}
