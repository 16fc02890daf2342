package matching

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPattern is wrapped by every pattern compilation error.
var ErrMalformedPattern = errors.New("malformed path pattern")

// PatternError describes why a path pattern could not be compiled.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedPattern, e.Pattern, e.Reason)
}

// Unwrap returns ErrMalformedPattern.
func (e *PatternError) Unwrap() error { return ErrMalformedPattern }

// SegmentKind distinguishes literal and parameter segments.
type SegmentKind int

const (
	// SegmentLiteral must equal the request segment exactly.
	SegmentLiteral SegmentKind = iota
	// SegmentParam matches any non-empty request segment.
	SegmentParam
)

// Segment is one compiled element of a path pattern.
// Value holds the literal text or the parameter name.
type Segment struct {
	Kind  SegmentKind
	Value string
}

// Pattern is a compiled path pattern.
type Pattern struct {
	raw      string
	segments []Segment
	literals int
}

// Compile parses a path pattern.
// Supported parameter forms are ":name" and "{name}".
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, &PatternError{Pattern: pattern, Reason: "must start with /"}
	}

	parts := SplitPath(pattern)
	p := &Pattern{raw: pattern, segments: make([]Segment, 0, len(parts))}
	seen := make(map[string]struct{})

	for _, part := range parts {
		seg, err := compileSegment(pattern, part)
		if err != nil {
			return nil, err
		}
		if seg.Kind == SegmentParam {
			if _, dup := seen[seg.Value]; dup {
				return nil, &PatternError{Pattern: pattern, Reason: "duplicate parameter " + seg.Value}
			}
			seen[seg.Value] = struct{}{}
		} else {
			p.literals++
		}
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

func compileSegment(pattern, part string) (Segment, error) {
	switch {
	case part == "":
		return Segment{}, &PatternError{Pattern: pattern, Reason: "empty segment"}

	case strings.HasPrefix(part, ":"):
		name := part[1:]
		if name == "" {
			return Segment{}, &PatternError{Pattern: pattern, Reason: "parameter marker without a name"}
		}
		if strings.ContainsAny(name, ":{}") {
			return Segment{}, &PatternError{Pattern: pattern, Reason: "invalid parameter name " + name}
		}
		return Segment{Kind: SegmentParam, Value: name}, nil

	case strings.HasPrefix(part, "{"):
		if !strings.HasSuffix(part, "}") {
			return Segment{}, &PatternError{Pattern: pattern, Reason: "unclosed parameter " + part}
		}
		name := part[1 : len(part)-1]
		if name == "" {
			return Segment{}, &PatternError{Pattern: pattern, Reason: "parameter marker without a name"}
		}
		if strings.ContainsAny(name, ":{}") {
			return Segment{}, &PatternError{Pattern: pattern, Reason: "invalid parameter name " + name}
		}
		return Segment{Kind: SegmentParam, Value: name}, nil

	case strings.ContainsAny(part, "{}"):
		return Segment{}, &PatternError{Pattern: pattern, Reason: "unbalanced brace in " + part}
	}

	return Segment{Kind: SegmentLiteral, Value: part}, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level patterns.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source pattern.
func (p *Pattern) String() string { return p.raw }

// Segments returns the compiled segments.
func (p *Pattern) Segments() []Segment { return p.segments }

// Specificity is the number of literal segments.
func (p *Pattern) Specificity() int { return p.literals }

// Params returns the parameter names in order of appearance.
func (p *Pattern) Params() []string {
	var names []string
	for _, s := range p.segments {
		if s.Kind == SegmentParam {
			names = append(names, s.Value)
		}
	}
	return names
}

// Match reports whether path matches the pattern and returns the bound
// parameters. The returned map is non-nil on success.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	return p.matchSegments(SplitPath(path))
}

func (p *Pattern) matchSegments(parts []string) (map[string]string, bool) {
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(map[string]string, len(p.segments)-p.literals)
	for i, seg := range p.segments {
		switch seg.Kind {
		case SegmentLiteral:
			if parts[i] != seg.Value {
				return nil, false
			}
		case SegmentParam:
			if parts[i] == "" {
				return nil, false
			}
			params[seg.Value] = parts[i]
		}
	}
	return params, true
}

// SplitPath splits an absolute path into segments.
// The root path has no segments and a single trailing slash is ignored.
func SplitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
