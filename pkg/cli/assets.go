package cli

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/cli/internal/output"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// DefaultAssetPattern selects the files 'assets upload' stores. It covers
// index.html plus everything the static route serves.
const DefaultAssetPattern = "**/*.{html,css,js,ico,png,jpg,svg}"

func (a *app) newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage the static console files",
	}

	var pattern string
	upload := &cobra.Command{
		Use:   "upload <dir>",
		Short: "Store console files from a directory",
		Long: `Store every file under <dir> that matches --pattern as a console asset.
A file at <dir>/css/app.css is served at /css/app.css; <dir>/index.html is
served at /.

The command opens the store file itself, so it cannot run while 'serve' holds
the file lock. To update a running server, PUT each file to
/api/admin/assets/<name> instead.`,
		Example: `  mockapi assets upload ./console/dist --kv-path ./data/mockapi.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAssetsUpload(cmd, args[0], pattern)
		},
	}
	upload.Flags().StringVar(&pattern, "pattern", DefaultAssetPattern, "Glob of files to upload, relative to <dir>")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored console files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAssetsList(cmd)
		},
	}

	cmd.AddCommand(upload, list)
	return cmd
}

func (a *app) runAssetsUpload(cmd *cobra.Command, dir, pattern string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotADirectory)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("invalid pattern %q", pattern)
	}

	fsys := os.DirFS(dir)
	names, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%s: %w matching %s", dir, ErrNoAssetsFound, pattern)
	}

	backend, cleanup, err := a.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	for _, name := range names {
		asset, err := readAsset(fsys, name)
		if err != nil {
			return err
		}
		if err := backend.Assets().Put(ctx, asset); err != nil {
			return fmt.Errorf("store %s: %w", name, err)
		}
		fmt.Fprintf(a.stdout, "%s\t%s\t%d bytes\n", asset.Name, asset.ContentType, len(asset.Data))
	}
	fmt.Fprintf(a.stderr, "Uploaded %d console files\n", len(names))
	return nil
}

func (a *app) runAssetsList(cmd *cobra.Command) error {
	backend, cleanup, err := a.openBackend(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	names, err := backend.Assets().List(cmd.Context())
	if err != nil {
		return err
	}
	if a.flags.jsonOutput {
		return output.JSON(a.stdout, names)
	}
	tw := output.Table(a.stdout)
	fmt.Fprintln(tw, "NAME\tROUTE")
	for _, name := range names {
		route := "/" + name
		if name == "index.html" {
			route = "/"
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, route)
	}
	return tw.Flush()
}

// openBackend loads configuration and opens the backend it selects.
func (a *app) openBackend(cmd *cobra.Command) (store.Backend, func(), error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, err := newLogger(cfg, a.stderr)
	if err != nil {
		return nil, nil, err
	}
	backend, err := openStore(cmd.Context(), cfg, storeDeps{log: log})
	if err != nil {
		return nil, nil, err
	}
	return backend, func() { _ = backend.Close() }, nil
}

func readAsset(fsys fs.FS, name string) (*model.Asset, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &model.Asset{Name: name, ContentType: model.AssetContentType(name), Data: data}, nil
}
