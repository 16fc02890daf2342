package portability

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
)

// ImportOptions provides configuration for the import process.
type ImportOptions struct {
	// Replace overwrites entries whose ID already exists instead of
	// reporting a conflict.
	Replace bool

	// DryRun validates every entry without writing anything.
	DryRun bool

	// Compiler validates endpoint path patterns. Nil uses a private one.
	Compiler *matching.Compiler
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	SettingsSaved bool
	Projects      int
	Endpoints     int
	// Replaced counts entries that overwrote an existing ID.
	Replaced int
	// Failed counts entries that were rejected.
	Failed int
}

// ImportError locates a rejected fixture entry.
type ImportError struct {
	Section string
	Index   int
	ID      string
	Cause   error
}

func (e *ImportError) Error() string {
	where := fmt.Sprintf("%s[%d]", e.Section, e.Index)
	if e.ID != "" {
		where += " (" + e.ID + ")"
	}
	return where + ": " + e.Cause.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// Import writes f into backend. Settings are applied first, then projects,
// then endpoints, so endpoints can refer to projects in the same document.
// A bad entry does not stop the import: every failure is collected into the
// returned *multierror.Error and the result counts what succeeded.
func Import(ctx context.Context, backend store.Backend, f *Fixture, opts ImportOptions) (*ImportResult, error) {
	compiler := opts.Compiler
	if compiler == nil {
		compiler = matching.NewCompiler()
	}
	res := &ImportResult{}
	var errs *multierror.Error
	fail := func(section string, i int, id string, err error) {
		res.Failed++
		errs = multierror.Append(errs, &ImportError{Section: section, Index: i, ID: id, Cause: err})
	}

	// Projects written by this document, so a dry run can still check
	// endpoint ownership.
	declared := make(map[string]bool, len(f.Projects))

	if f.Settings != nil {
		s := f.Settings.Clone()
		if s.DefaultHeaders == nil {
			s.DefaultHeaders = map[string]string{}
		}
		switch err := s.Validate(); {
		case err != nil:
			fail("settings", 0, "", err)
		case opts.DryRun:
			res.SettingsSaved = true
		default:
			if err := backend.SaveSettings(ctx, s); err != nil {
				fail("settings", 0, "", err)
			} else {
				res.SettingsSaved = true
			}
		}
	}

	for i, entry := range f.Projects {
		p := entry.toProject()
		if err := p.Validate(); err != nil {
			fail("projects", i, p.ID, err)
			continue
		}
		if p.ID != "" && !store.ValidID(p.ID) {
			fail("projects", i, p.ID, store.ErrInvalidID)
			continue
		}
		replaced, err := writeProject(ctx, backend, p, opts)
		if err != nil {
			fail("projects", i, p.ID, err)
			continue
		}
		declared[p.ID] = true
		res.Projects++
		if replaced {
			res.Replaced++
		}
	}

	for i, entry := range f.Endpoints {
		ep, err := entry.toEndpoint()
		if err != nil {
			fail("endpoints", i, entry.ID, err)
			continue
		}
		ep.Normalize()
		if err := ep.Validate(); err != nil {
			fail("endpoints", i, ep.ID, err)
			continue
		}
		if _, err := compiler.Compile(ep.Path); err != nil {
			fail("endpoints", i, ep.ID, err)
			continue
		}
		if ep.ID != "" && !store.ValidID(ep.ID) {
			fail("endpoints", i, ep.ID, store.ErrInvalidID)
			continue
		}
		replaced, err := writeEndpoint(ctx, backend, ep, declared, opts)
		if err != nil {
			fail("endpoints", i, ep.ID, err)
			continue
		}
		res.Endpoints++
		if replaced {
			res.Replaced++
		}
	}

	return res, errs.ErrorOrNil()
}

func writeProject(ctx context.Context, backend store.Backend, p *model.Project, opts ImportOptions) (bool, error) {
	exists := false
	if p.ID != "" {
		_, err := backend.Projects().Get(ctx, p.ID)
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, store.ErrNotFound):
			return false, err
		}
	}
	if exists && !opts.Replace {
		return false, store.ErrAlreadyExists
	}
	if opts.DryRun {
		return exists, nil
	}
	if exists {
		return true, backend.Projects().Update(ctx, p)
	}
	return false, backend.Projects().Create(ctx, p)
}

func writeEndpoint(ctx context.Context, backend store.Backend, ep *model.Endpoint, declared map[string]bool, opts ImportOptions) (bool, error) {
	exists := false
	if ep.ID != "" {
		_, err := backend.Endpoints().Get(ctx, ep.ID)
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, store.ErrNotFound):
			return false, err
		}
	}
	if exists && !opts.Replace {
		return false, store.ErrAlreadyExists
	}
	if opts.DryRun {
		if ep.ProjectID != "" && !declared[ep.ProjectID] {
			if _, err := backend.Projects().Get(ctx, ep.ProjectID); err != nil {
				return false, fmt.Errorf("project %s: %w", ep.ProjectID, err)
			}
		}
		return exists, nil
	}

	var err error
	if exists {
		err = backend.Endpoints().Update(ctx, ep)
	} else {
		err = backend.Endpoints().Create(ctx, ep)
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("project %s: %w", ep.ProjectID, err)
	}
	return exists, err
}
