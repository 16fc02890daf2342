package portability

import (
	"context"
	"errors"
	"fmt"

	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// ExportOptions provides configuration for the export process.
type ExportOptions struct {
	// ProjectID limits the export to one project and its endpoints. Global
	// endpoints and settings are left out.
	ProjectID string
}

// Export reads backend into a fixture. Missing settings are exported as the
// defaults the server would apply.
func Export(ctx context.Context, backend store.Backend, opts ExportOptions) (*Fixture, error) {
	f := &Fixture{Version: FixtureVersion, Kind: FixtureKind}

	if opts.ProjectID == "" {
		s, err := backend.GetSettings(ctx)
		switch {
		case errors.Is(err, store.ErrNotFound):
			s = model.DefaultSettings()
		case err != nil:
			return nil, fmt.Errorf("export settings: %w", err)
		}
		f.Settings = s
	}

	var projects []*model.Project
	if opts.ProjectID != "" {
		p, err := backend.Projects().Get(ctx, opts.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("export project %s: %w", opts.ProjectID, err)
		}
		projects = []*model.Project{p}
	} else {
		var err error
		if projects, err = backend.Projects().List(ctx); err != nil {
			return nil, fmt.Errorf("export projects: %w", err)
		}
	}
	for _, p := range projects {
		f.Projects = append(f.Projects, projectEntry(p))
	}

	endpoints, err := backend.Endpoints().List(ctx, &store.EndpointFilter{ProjectID: opts.ProjectID})
	if err != nil {
		return nil, fmt.Errorf("export endpoints: %w", err)
	}
	for _, ep := range endpoints {
		entry, err := endpointEntry(ep)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		f.Endpoints = append(f.Endpoints, entry)
	}
	return f, nil
}
