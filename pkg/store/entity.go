package store

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/getmockd/mockapi/internal/id"
	"github.com/getmockd/mockapi/pkg/model"
)

// Now returns the timestamp backends stamp onto entities. The monotonic
// reading is stripped so values compare equal after a JSON round trip.
func Now() time.Time {
	return time.Now().UTC()
}

// PrepareProjectCreate assigns an ID when missing and sets both timestamps.
func PrepareProjectCreate(p *model.Project, now time.Time) error {
	if p.ID == "" {
		p.ID = id.New()
	}
	if !ValidID(p.ID) {
		return ErrInvalidID
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// PrepareProjectUpdate keeps the stored creation time and refreshes UpdatedAt.
func PrepareProjectUpdate(p, existing *model.Project, now time.Time) {
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now
}

// PrepareEndpointCreate normalizes the endpoint, assigns an ID when missing and
// sets both timestamps.
func PrepareEndpointCreate(e *model.Endpoint, now time.Time) error {
	if e.ID == "" {
		e.ID = id.New()
	}
	if !ValidID(e.ID) {
		return ErrInvalidID
	}
	e.Normalize()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// PrepareEndpointUpdate normalizes the endpoint, keeps the stored creation time
// and refreshes UpdatedAt.
func PrepareEndpointUpdate(e, existing *model.Endpoint, now time.Time) {
	e.Normalize()
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = now
}

// ValidID reports whether id can be embedded in a storage key.
func ValidID(id string) bool {
	return id != "" && !strings.ContainsAny(id, ": /")
}

// SortProjects orders projects by creation time, then ID.
func SortProjects(ps []*model.Project) {
	slices.SortFunc(ps, func(a, b *model.Project) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortEndpoints orders endpoints by creation time, then ID.
func SortEndpoints(es []*model.Endpoint) {
	slices.SortFunc(es, func(a, b *model.Endpoint) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
