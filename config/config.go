package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connectfour/minimax"
)

const (
	ConfigDebug          = "debug"
	ConfigSearchPlies    = "search-plies"
	ConfigPruning        = "pruning"
	ConfigSearchThreads  = "search-threads"
	ConfigSearchLogFile  = "search-log-file"
	ConfigHumanSide      = "human-side"
	ConfigHistoryFile    = "history-file"
	ConfigConfigFile     = "config-file"
	ConfigCPUProfile     = "cpu-profile"
	ConfigMemProfile     = "mem-profile"
	DefaultHistoryFile   = "/tmp/connectfour_readline.tmp"
	DefaultHumanSide     = "x"
	envPrefix            = "connectfour"
	flagSetName          = "connectfour"
	defaultSearchThreads = 1
)

var ErrNoConfigFile = errors.New("no config file set; start with --config-file to persist settings")

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only the defaults. Tests and
// library callers use it directly; the executable calls Load on top.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigSearchPlies, minimax.DefaultPlies)
	c.SetDefault(ConfigPruning, false)
	c.SetDefault(ConfigSearchThreads, defaultSearchThreads)
	c.SetDefault(ConfigSearchLogFile, "")
	c.SetDefault(ConfigHumanSide, DefaultHumanSide)
	c.SetDefault(ConfigHistoryFile, DefaultHistoryFile)
	c.SetDefault(ConfigConfigFile, "")
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
	return c
}

// Load parses command-line flags, then environment variables prefixed
// with CONNECTFOUR_, then the config file if one is named. Anything that is
// not a flag is kept as a shell command; see Args.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet(flagSetName, pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigSearchPlies, minimax.DefaultPlies, "search depth in plies")
	fs.Bool(ConfigPruning, false, "enable alpha-beta cut-offs in the search")
	fs.Int(ConfigSearchThreads, defaultSearchThreads, "goroutines used to search the root's children")
	fs.String(ConfigSearchLogFile, "", "append a YAML record of every search to this file")
	fs.String(ConfigHumanSide, DefaultHumanSide, "side the human plays: x, o or random")
	fs.String(ConfigHistoryFile, DefaultHistoryFile, "readline history file")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if cf := c.GetString(ConfigConfigFile); cf != "" {
		c.SetConfigFile(cf)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cf, err)
		}
	}
	return nil
}

// Args are the leftover non-flag arguments from Load.
func (c *Config) Args() []string {
	return c.args
}

// Write saves the current settings to the config file.
func (c *Config) Write() error {
	cf := c.GetString(ConfigConfigFile)
	if cf == "" {
		return ErrNoConfigFile
	}
	return c.WriteConfigAs(cf)
}

// SanitizedSettings is every setting, suitable for logging at startup.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
