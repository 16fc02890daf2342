package matching

import (
	"github.com/getmockd/mockapi/pkg/model"
)

// Match is the outcome of a successful resolution.
type Match struct {
	// Endpoint is the selected endpoint.
	Endpoint *model.Endpoint
	// Params holds the values bound by parameter segments.
	Params map[string]string
	// Specificity is the literal segment count of the matched pattern.
	Specificity int
}

// SkipFunc is called for each candidate whose pattern could not be compiled.
type SkipFunc func(ep *model.Endpoint, err error)

// Select returns the best endpoint for method and path, or nil if none match.
// Candidates with a different method are ignored. Candidates with malformed
// patterns are reported to onSkip (which may be nil) and ignored.
func (c *Compiler) Select(endpoints []*model.Endpoint, method, path string, onSkip SkipFunc) *Match {
	method = model.NormalizeMethod(method)
	parts := SplitPath(path)

	var best *Match
	for _, ep := range endpoints {
		if ep == nil || model.NormalizeMethod(ep.Method) != method {
			continue
		}

		p, err := c.Compile(ep.Path)
		if err != nil {
			if onSkip != nil {
				onSkip(ep, err)
			}
			continue
		}

		params, ok := p.matchSegments(parts)
		if !ok {
			continue
		}

		m := &Match{Endpoint: ep, Params: params, Specificity: p.Specificity()}
		if best == nil || Better(m, best) {
			best = m
		}
	}
	return best
}

// Better reports whether a should be preferred over b.
// Order: specificity, then UpdatedAt, then CreatedAt, then ID, newer first at
// each step. IDs are time ordered, so the larger one was issued later.
func Better(a, b *Match) bool {
	if a.Specificity != b.Specificity {
		return a.Specificity > b.Specificity
	}
	ea, eb := a.Endpoint, b.Endpoint
	if !ea.UpdatedAt.Equal(eb.UpdatedAt) {
		return ea.UpdatedAt.After(eb.UpdatedAt)
	}
	if !ea.CreatedAt.Equal(eb.CreatedAt) {
		return ea.CreatedAt.After(eb.CreatedAt)
	}
	return ea.ID > eb.ID
}
