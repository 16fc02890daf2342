package cliconfig

// Config is the complete configuration of the mockapi server.
type Config struct {
	// Listener
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Timeouts in seconds. WriteTimeout 0 means none, so long mock delays are
	// never cut off.
	ReadTimeout     int `yaml:"readTimeout"`
	WriteTimeout    int `yaml:"writeTimeout"`
	ShutdownTimeout int `yaml:"shutdownTimeout"`

	// KVPath selects the durable bbolt backend. Empty means in-memory.
	KVPath string `yaml:"kvPath"`

	// Admin authentication. An empty password leaves the admin API open.
	AdminPassword string `yaml:"adminPassword"`
	JWTSecret     string `yaml:"jwtSecret"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	// Metrics toggles the /metrics route.
	Metrics bool `yaml:"metrics"`

	ConfigFile string `yaml:"-"`

	// Sources maps a yaml key to the layer it was last set by.
	Sources map[string]string `yaml:"-"`

	// setFields holds the keys explicitly present in a loaded file, so that an
	// explicit false or zero can override a default.
	setFields map[string]bool
}

// Source identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Source returns the layer that set key, or SourceDefault.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Redacted returns a copy safe to log: secrets are masked.
func (c Config) Redacted() Config {
	if c.AdminPassword != "" {
		c.AdminPassword = redacted
	}
	if c.JWTSecret != "" {
		c.JWTSecret = redacted
	}
	c.Sources = nil
	c.setFields = nil
	return c
}

const redacted = "********"
