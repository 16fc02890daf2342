package cliconfig

// Merge copies the values set in src onto dst and records layer as their
// source. Strings and numbers are applied when non-zero; booleans only when
// the key was explicitly present in src.
func Merge(dst, src *Config, layer string) {
	if src == nil {
		return
	}
	if dst.Sources == nil {
		dst.Sources = make(map[string]string)
	}
	set := func(key string) { dst.Sources[key] = layer }

	if src.Host != "" || src.isSet("host") {
		dst.Host = src.Host
		set("host")
	}
	if src.Port != 0 || src.isSet("port") {
		dst.Port = src.Port
		set("port")
	}
	if src.ReadTimeout != 0 {
		dst.ReadTimeout = src.ReadTimeout
		set("readTimeout")
	}
	if src.WriteTimeout != 0 || src.isSet("writeTimeout") {
		dst.WriteTimeout = src.WriteTimeout
		set("writeTimeout")
	}
	if src.ShutdownTimeout != 0 {
		dst.ShutdownTimeout = src.ShutdownTimeout
		set("shutdownTimeout")
	}
	if src.KVPath != "" {
		dst.KVPath = src.KVPath
		set("kvPath")
	}
	if src.AdminPassword != "" {
		dst.AdminPassword = src.AdminPassword
		set("adminPassword")
	}
	if src.JWTSecret != "" {
		dst.JWTSecret = src.JWTSecret
		set("jwtSecret")
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
		set("logLevel")
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
		set("logFormat")
	}
	if src.isSet("metrics") {
		dst.Metrics = src.Metrics
		set("metrics")
	}
}

func (c *Config) isSet(key string) bool {
	return c.setFields[key]
}
