package audit

// Config controls audit emission. The log sink is always on; the Redis stream
// sink is optional.
type Config struct {
	// Stream is the Redis stream audit events are appended to.
	Stream string `conf:"stream" yaml:"stream" json:"stream"`

	Redis RedisConfig `conf:"redis" yaml:"redis" json:"redis"`
}

// RedisConfig configures the optional Redis sink.
type RedisConfig struct {
	Enabled  bool   `conf:"enabled" yaml:"enabled" json:"enabled"`
	Addr     string `conf:"addr" yaml:"addr" json:"addr"`
	Password string `conf:"password" yaml:"password" json:"password"`
	DB       int    `conf:"db" yaml:"db" json:"db"`
}
