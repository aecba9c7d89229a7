// Package conf loads process configuration from file and environment.
//
// Configuration is read from crmhub.yml (working directory, ./conf or
// /etc/crmhub) and overridden by CRMHUB_* environment variables, e.g.
// CRMHUB_SERVER_PORT=9000.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/tidescale/crmhub/internal/audit"
	"github.com/tidescale/crmhub/internal/log"
	"github.com/tidescale/crmhub/internal/metrics"
	"github.com/tidescale/crmhub/internal/server"
	"github.com/tidescale/crmhub/internal/server/biz"
	"github.com/tidescale/crmhub/internal/tenant"
)

// Config aggregates all component configurations. It is an fx.Out so every
// sub-config is individually available to the dependency graph.
type Config struct {
	fx.Out `yaml:"-" json:"-"`

	Server  server.Config  `conf:"server" yaml:"server" json:"server"`
	Log     log.Config     `conf:"log" yaml:"log" json:"log"`
	Tenant  tenant.Config  `conf:"tenant" yaml:"tenant" json:"tenant"`
	Auth    biz.AuthConfig `conf:"auth" yaml:"auth" json:"auth"`
	Audit   audit.Config   `conf:"audit" yaml:"audit" json:"audit"`
	Metrics metrics.Config `conf:"metrics" yaml:"metrics" json:"metrics"`
}

// Load reads configuration with defaults applied.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("crmhub")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./conf")
	v.AddConfigPath("/etc/crmhub")

	v.SetEnvPrefix("CRMHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("conf: read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, withConfTags); err != nil {
		return Config{}, fmt.Errorf("conf: unmarshal config: %w", err)
	}

	return config, nil
}

func withConfTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "conf"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "crmhub")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("auth.cache_ttl", "5m")
	v.SetDefault("audit.stream", "crmhub:audit")
}

// Validate checks the loaded configuration, collecting every violation.
func Validate(config Config) error {
	var err error

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("conf: server.port %d out of range", config.Server.Port))
	}

	switch strings.ToLower(config.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("conf: unknown log.level %q", config.Log.Level))
	}

	switch strings.ToLower(config.Log.Format) {
	case "", "json", "console":
	default:
		err = multierr.Append(err, fmt.Errorf("conf: unknown log.format %q", config.Log.Format))
	}

	if config.Auth.Enabled && config.Auth.Secret == "" {
		err = multierr.Append(err, errors.New("conf: auth.secret is required when auth is enabled"))
	}

	if config.Audit.Redis.Enabled && config.Audit.Redis.Addr == "" {
		err = multierr.Append(err, errors.New("conf: audit.redis.addr is required when the redis sink is enabled"))
	}

	return err
}
