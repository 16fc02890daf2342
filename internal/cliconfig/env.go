package cliconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Environment variable names.
const (
	EnvConfig          = "MOCKAPI_CONFIG"
	EnvHost            = "MOCKAPI_HOST"
	EnvPort            = "MOCKAPI_PORT"
	EnvKVPath          = "MOCKAPI_KV_PATH"
	EnvAdminPassword   = "MOCKAPI_ADMIN_PASSWORD"
	EnvJWTSecret       = "MOCKAPI_JWT_SECRET"
	EnvLogLevel        = "MOCKAPI_LOG_LEVEL"
	EnvLogFormat       = "MOCKAPI_LOG_FORMAT"
	EnvReadTimeout     = "MOCKAPI_READ_TIMEOUT"
	EnvWriteTimeout    = "MOCKAPI_WRITE_TIMEOUT"
	EnvShutdownTimeout = "MOCKAPI_SHUTDOWN_TIMEOUT"
	EnvMetrics         = "MOCKAPI_METRICS"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnv builds a Config from the environment. Only present variables are
// set. Malformed numbers and booleans are reported together.
func LoadEnv(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := &Config{setFields: make(map[string]bool)}
	var errs *multierror.Error

	str := func(env, key string, dst *string) {
		if v, ok := lookup(env); ok {
			*dst = v
			cfg.setFields[key] = true
		}
	}
	num := func(env, key string, dst *int) {
		v, ok := lookup(env)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %q is not an integer", env, v))
			return
		}
		*dst = n
		cfg.setFields[key] = true
	}
	flag := func(env, key string, dst *bool) {
		v, ok := lookup(env)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := parseBool(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", env, err))
			return
		}
		*dst = b
		cfg.setFields[key] = true
	}

	str(EnvConfig, "configFile", &cfg.ConfigFile)
	str(EnvHost, "host", &cfg.Host)
	num(EnvPort, "port", &cfg.Port)
	str(EnvKVPath, "kvPath", &cfg.KVPath)
	str(EnvAdminPassword, "adminPassword", &cfg.AdminPassword)
	str(EnvJWTSecret, "jwtSecret", &cfg.JWTSecret)
	str(EnvLogLevel, "logLevel", &cfg.LogLevel)
	str(EnvLogFormat, "logFormat", &cfg.LogFormat)
	num(EnvReadTimeout, "readTimeout", &cfg.ReadTimeout)
	num(EnvWriteTimeout, "writeTimeout", &cfg.WriteTimeout)
	num(EnvShutdownTimeout, "shutdownTimeout", &cfg.ShutdownTimeout)
	flag(EnvMetrics, "metrics", &cfg.Metrics)

	return cfg, errs.ErrorOrNil()
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean", v)
}
