package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backkem/teleclient/pkg/exchange"
	"github.com/pion/logging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TELECLIENT_HOST.
const EnvPrefix = "TELECLIENT"

var (
	errUsage     = errors.New("missing or invalid arguments")
	errLogLevel  = errors.New("unknown log level")
	errUsageWait = errors.New("--wait must be positive")
)

// Options is the merged configuration of one invocation.
// Precedence: flags, then TELECLIENT_* variables, then the config file.
type Options struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Method    string `mapstructure:"method"`
	Path      string `mapstructure:"path"`
	Payload   string `mapstructure:"payload"`
	TimeoutMS int    `mapstructure:"timeout"`
	Retries   int    `mapstructure:"retries"`
	NonConf   bool   `mapstructure:"non"`
	Verbose   bool   `mapstructure:"verbose"`
	Output    string `mapstructure:"output"`
	Metrics   bool   `mapstructure:"metrics"`
	LogLevel  string `mapstructure:"log-level"`
	Fallback  bool   `mapstructure:"fallback"`
	MDNS      bool   `mapstructure:"mdns"`
}

// Validate checks the required flags the way the request needs them.
// The method name is checked later so it can be reported on its own.
func (o Options) Validate() error {
	var missing []string
	if o.Host == "" {
		missing = append(missing, "--host")
	}
	if o.Port <= 0 || o.Port > 0xFFFF {
		missing = append(missing, "--port")
	}
	if o.Method == "" {
		missing = append(missing, "--method")
	}
	if o.Path == "" {
		missing = append(missing, "--path")
	}
	if o.TimeoutMS <= 0 {
		missing = append(missing, "--timeout")
	}
	if o.Retries < 0 {
		missing = append(missing, "--retries")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errUsage, strings.Join(missing, ", "))
	}
	return nil
}

// ExchangeConfig converts the options to an exchange configuration.
func (o Options) ExchangeConfig() exchange.Config {
	return exchange.Config{
		Host:           o.Host,
		Port:           uint16(o.Port),
		Timeout:        time.Duration(o.TimeoutMS) * time.Millisecond,
		Retries:        o.Retries,
		NonConfirmable: o.NonConf,
		Verbose:        o.Verbose,
	}
}

// initViper builds a viper instance over flags, environment and an optional
// config file. Without configPath, $XDG_CONFIG_HOME/teleclient/config.* is
// read when present.
func initViper(flags *pflag.FlagSet, configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return v, nil
		}
		v.AddConfigPath(filepath.Join(dir, "teleclient"))
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func loadOptions(flags *pflag.FlagSet, configPath string) (Options, error) {
	v, err := initViper(flags, configPath)
	if err != nil {
		return Options{}, err
	}
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return opts, nil
}

// parseLogLevel maps a --log-level value to a pion/logging level.
func parseLogLevel(s string) (logging.LogLevel, error) {
	switch strings.ToLower(s) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, nil
	case "error", "":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}
	return logging.LogLevelDisabled, fmt.Errorf("%w %q", errLogLevel, s)
}
