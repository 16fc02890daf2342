package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/internal/cliconfig"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	kvPath     string
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// app carries what commands share: flags, streams and the environment.
type app struct {
	flags  globalFlags
	serve  serveFlags
	stdout io.Writer
	stderr io.Writer
	lookup cliconfig.LookupFunc
	dir    string
}

// NewRootCmd builds the mockapi command tree. Running it without a
// subcommand starts the server.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{stdout: os.Stdout, stderr: os.Stderr, lookup: os.LookupEnv})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mockapi",
		Short: "mockapi serves configurable mock HTTP endpoints",
		Long: `mockapi answers HTTP requests with canned responses registered through its
admin API, so frontends and integration tests can run against a backend that
does not exist yet.

Configuration can be provided via flags, MOCKAPI_* environment variables, or a
YAML file (--config, default ./mockapi.yaml).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configFile, "config", "c", "", "Path to YAML config file")
	pf.StringVar(&a.flags.kvPath, "kv-path", "", "bbolt database file (empty = in-memory storage)")
	pf.StringVar(&a.flags.logLevel, "log-level", cliconfig.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.logFormat, "log-format", cliconfig.DefaultLogFormat, "Log format (text, json)")
	pf.BoolVar(&a.flags.jsonOutput, "json", false, "Output command results in JSON format")

	a.addServeFlags(root)
	root.AddCommand(
		a.newServeCmd(),
		a.newImportCmd(),
		a.newExportCmd(),
		a.newAssetsCmd(),
		a.newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args and returns the process exit
// code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
