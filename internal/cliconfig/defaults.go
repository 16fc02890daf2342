package cliconfig

// Defaults.
const (
	DefaultHost            = ""
	DefaultPort            = 8787
	DefaultReadTimeout     = 30
	DefaultWriteTimeout    = 0
	DefaultShutdownTimeout = 5
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultMetrics         = true
)

// NewDefault returns a Config holding only default values.
func NewDefault() *Config {
	cfg := &Config{
		Host:            DefaultHost,
		Port:            DefaultPort,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		Metrics:         DefaultMetrics,
		Sources:         make(map[string]string),
	}
	for _, key := range []string{"host", "port", "readTimeout", "writeTimeout", "shutdownTimeout", "logLevel", "logFormat", "metrics"} {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}
