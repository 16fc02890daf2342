package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir(), Lookup: env(nil)})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, 0, cfg.WriteTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Metrics)
	assert.Empty(t, cfg.KVPath)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, SourceDefault, cfg.Source("port"))
	assert.Equal(t, SourceDefault, cfg.Source("kvPath"))
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mockapi.yaml", `
port: 9000
host: 127.0.0.1
kvPath: /var/lib/mockapi.db
logLevel: warn
metrics: false
`)

	flags := &Config{Port: 9100}
	flags.MarkSet("port")

	cfg, err := Load(Options{
		Dir:    dir,
		Lookup: env(map[string]string{EnvPort: "9050", EnvLogLevel: "debug"}),
		Flags:  flags,
	})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, SourceFlag, cfg.Source("port"))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, SourceEnv, cfg.Source("logLevel"))
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, SourceFile, cfg.Source("host"))
	assert.Equal(t, "/var/lib/mockapi.db", cfg.KVPath)
	assert.False(t, cfg.Metrics, "explicit false in the file overrides the default")
	assert.Equal(t, SourceFile, cfg.Source("metrics"))
	assert.Equal(t, filepath.Join(dir, "mockapi.yaml"), cfg.ConfigFile)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yml", "port: 7000\n")

	t.Run("via options", func(t *testing.T) {
		cfg, err := Load(Options{ConfigFile: path, Dir: t.TempDir(), Lookup: env(nil)})
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
	})

	t.Run("via environment", func(t *testing.T) {
		cfg, err := Load(Options{Dir: t.TempDir(), Lookup: env(map[string]string{EnvConfig: path})})
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Port)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(Options{ConfigFile: filepath.Join(dir, "nope.yaml"), Lookup: env(nil)})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{"unknown key", "prot: 1\n", nil, "field prot not found"},
		{"bad yaml", "port: [\n", nil, "mockapi.yaml"},
		{"port out of range", "port: 70000\n", nil, "Port"},
		{"bad log level", "", map[string]string{EnvLogLevel: "loud"}, "unknown log level"},
		{"bad log format", "", map[string]string{EnvLogFormat: "xml"}, "unknown log format"},
		{"env not an integer", "", map[string]string{EnvPort: "eighty"}, "MOCKAPI_PORT"},
		{"env not a boolean", "", map[string]string{EnvMetrics: "maybe"}, "MOCKAPI_METRICS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.file != "" {
				writeFile(t, dir, "mockapi.yaml", tt.file)
			}
			_, err := Load(Options{Dir: dir, Lookup: env(tt.env)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	cfg, err := LoadEnv(env(map[string]string{
		EnvHost:          "0.0.0.0",
		EnvKVPath:        "data.db",
		EnvAdminPassword: "pw",
		EnvJWTSecret:     "secret",
		EnvWriteTimeout:  "0",
		EnvMetrics:       "off",
	}))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "data.db", cfg.KVPath)
	assert.Equal(t, "pw", cfg.AdminPassword)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.False(t, cfg.Metrics)
	assert.True(t, cfg.isSet("metrics"))
	assert.True(t, cfg.isSet("writeTimeout"))
	assert.False(t, cfg.isSet("port"))
}

func TestMerge_ZeroValuesIgnoredUnlessSet(t *testing.T) {
	dst := NewDefault()
	Merge(dst, &Config{}, SourceFlag)
	assert.Equal(t, DefaultPort, dst.Port)
	assert.True(t, dst.Metrics)
	assert.Equal(t, SourceDefault, dst.Source("port"))

	src := &Config{}
	src.MarkSet("metrics")
	Merge(dst, src, SourceFlag)
	assert.False(t, dst.Metrics)
	assert.Equal(t, SourceFlag, dst.Source("metrics"))
}

func TestRedacted(t *testing.T) {
	cfg := Config{AdminPassword: "pw", JWTSecret: "s", Port: 1, Sources: map[string]string{"port": SourceFlag}}
	r := cfg.Redacted()
	assert.Equal(t, redacted, r.AdminPassword)
	assert.Equal(t, redacted, r.JWTSecret)
	assert.Equal(t, 1, r.Port)
	assert.Nil(t, r.Sources)
	assert.Equal(t, "pw", cfg.AdminPassword)

	empty := Config{}.Redacted()
	assert.Empty(t, empty.AdminPassword)
}
