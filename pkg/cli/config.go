package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/internal/cliconfig"
)

// loadConfig resolves the effective configuration for cmd. Only flags the
// user actually passed take part in the flag layer.
func (a *app) loadConfig(cmd *cobra.Command) (*cliconfig.Config, error) {
	fs := cmd.Flags()
	flags := &cliconfig.Config{}

	str := func(name, key string, src string, dst *string) {
		if fs.Changed(name) {
			*dst = src
			flags.MarkSet(key)
		}
	}
	num := func(name, key string, src int, dst *int) {
		if fs.Changed(name) {
			*dst = src
			flags.MarkSet(key)
		}
	}

	str("config", "configFile", a.flags.configFile, &flags.ConfigFile)
	str("kv-path", "kvPath", a.flags.kvPath, &flags.KVPath)
	str("log-level", "logLevel", a.flags.logLevel, &flags.LogLevel)
	str("log-format", "logFormat", a.flags.logFormat, &flags.LogFormat)

	// Serve flags are only registered on the root and serve commands.
	if fs.Lookup("port") != nil {
		str("host", "host", a.serve.host, &flags.Host)
		num("port", "port", a.serve.port, &flags.Port)
		str("admin-password", "adminPassword", a.serve.adminPassword, &flags.AdminPassword)
		str("jwt-secret", "jwtSecret", a.serve.jwtSecret, &flags.JWTSecret)
		num("read-timeout", "readTimeout", a.serve.readTimeout, &flags.ReadTimeout)
		num("write-timeout", "writeTimeout", a.serve.writeTimeout, &flags.WriteTimeout)
		num("shutdown-timeout", "shutdownTimeout", a.serve.shutdownTimeout, &flags.ShutdownTimeout)
		if fs.Changed("metrics") {
			flags.Metrics = a.serve.metrics
			flags.MarkSet("metrics")
		}
	}

	return cliconfig.Load(cliconfig.Options{
		ConfigFile: flags.ConfigFile,
		Dir:        a.dir,
		Lookup:     a.lookup,
		Flags:      flags,
	})
}
