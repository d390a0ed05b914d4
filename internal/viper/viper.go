// Package viper provides convenience functions over the official spf13/viper library.
// In particular, it satisfies the need of providing a custom pre-configured global viper instance.
package viper

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all environment variables scanctl reads its configuration from.
const EnvPrefix = "SCANCTL"

// Default is the default, pre-configured instance of viper.
var Default = newInstance()

func newInstance() *viper.Viper {
	v := NewFileReader()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Reset replaces Default with a fresh instance.
func Reset() { Default = newInstance() }

// BindPFlag binds a specific key to a pflag (as used by cobra).
// Example (where serverCmd is a Cobra instance):
//
//	serverCmd.Flags().Int("port", 1138, "Port to run Application server on")
//	Viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
func BindPFlag(key string, flag *pflag.Flag) error { return Default.BindPFlag(key, flag) }

// MergeConfigMap merges cfg into the config file layer of Default. Flags and environment still take precedence.
func MergeConfigMap(cfg map[string]interface{}) error { return Default.MergeConfigMap(cfg) }

// NewFileReader returns an instance that only reads config files. It shares the key delimiter of Default but
// ignores the environment.
func NewFileReader() *viper.Viper { return viper.NewWithOptions(viper.KeyDelimiter("::")) }

// SetDefault sets the default value for this key.
func SetDefault(key string, value interface{}) { Default.SetDefault(key, value) }

// Unmarshal unmarshals the config into a Struct. Make sure that the tags
// on the fields of the structure are properly set.
func Unmarshal(rawVal interface{}, opts ...viper.DecoderConfigOption) error {
	return Default.Unmarshal(rawVal, opts...)
}
