package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/portability"
)

type exportFlags struct {
	output    string
	format    string
	projectID string
}

func (a *app) newExportCmd() *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored projects, endpoints and settings as a fixture",
		Long: `Read the configured backend and write its contents as a fixture that
'mockapi import' accepts. The output is YAML unless the file name ends in
.json or --format json is given. The store file is locked while 'serve'
runs.`,
		Example: `  # Export to stdout
  mockapi export --kv-path ./data/mockapi.db

  # Export one project to a JSON file
  mockapi export --project shop -o shop.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runExport(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: yaml, json (default: from file name)")
	cmd.Flags().StringVar(&f.projectID, "project", "", "Export only this project and its endpoints")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, f exportFlags) error {
	enc := portability.EncodingFor(f.output)
	if f.format != "" {
		var ok bool
		if enc, ok = portability.ParseEncoding(f.format); !ok {
			return fmt.Errorf("invalid format %q (supported: yaml, json)", f.format)
		}
	}

	backend, cleanup, err := a.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	fixture, err := portability.Export(ctx, backend, portability.ExportOptions{ProjectID: f.projectID})
	if err != nil {
		return err
	}
	data, err := portability.Encode(fixture, enc == portability.EncodingJSON)
	if err != nil {
		return err
	}

	if f.output == "" {
		_, err := a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(f.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.output, err)
	}
	fmt.Fprintf(a.stderr, "Exported %d projects and %d endpoints to %s (format: %s)\n",
		len(fixture.Projects), len(fixture.Endpoints), f.output, enc)
	return nil
}
