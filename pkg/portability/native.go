package portability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockapi/pkg/model"
)

// Fixture document identity.
const (
	FixtureVersion = "1.0"
	FixtureKind    = "MockFixture"
)

// Fixture is the portable document format.
type Fixture struct {
	Version   string                `json:"version" yaml:"version"`
	Kind      string                `json:"kind" yaml:"kind"`
	Settings  *model.GlobalSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Projects  []FixtureProject      `json:"projects,omitempty" yaml:"projects,omitempty"`
	Endpoints []FixtureEndpoint     `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
}

// FixtureProject is a project entry.
type FixtureProject struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FixtureEndpoint is an endpoint entry.
type FixtureEndpoint struct {
	ID        string          `json:"id,omitempty" yaml:"id,omitempty"`
	ProjectID string          `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
	Method    string          `json:"method" yaml:"method"`
	Path      string          `json:"path" yaml:"path"`
	Response  FixtureResponse `json:"response" yaml:"response"`
}

// FixtureResponse is the simulated response of an endpoint. Body holds any
// YAML or JSON value. Exported bodies are the stored json.RawMessage, so
// numbers keep their exact text.
type FixtureResponse struct {
	Status  int               `json:"status,omitempty" yaml:"status,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
	Delay   int               `json:"delay,omitempty" yaml:"delay,omitempty"`
}

// IsEmpty reports whether the fixture carries no data.
func (f *Fixture) IsEmpty() bool {
	return f.Settings == nil && len(f.Projects) == 0 && len(f.Endpoints) == 0
}

// ErrUnsupportedVersion is returned for documents written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported fixture version")

// Decode parses a fixture. JSON is a subset of YAML, so one decoder handles
// both. Unknown keys are rejected.
func Decode(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Version != "" && f.Version != FixtureVersion {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, f.Version)
	}
	if f.Kind != "" && f.Kind != FixtureKind {
		return nil, fmt.Errorf("parse fixture: unexpected kind %q", f.Kind)
	}
	return &f, nil
}

// Encode writes f as YAML, or as indented JSON when asJSON is set.
func Encode(f *Fixture, asJSON bool) ([]byte, error) {
	var buf bytes.Buffer
	if asJSON {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encode fixture: %w", err)
		}
		return buf.Bytes(), nil
	}

	out := *f
	out.Endpoints = make([]FixtureEndpoint, len(f.Endpoints))
	for i, e := range f.Endpoints {
		if raw, ok := e.Response.Body.(json.RawMessage); ok {
			body, err := yamlBody(raw)
			if err != nil {
				return nil, fmt.Errorf("encode fixture: endpoint %s: %w", e.ID, err)
			}
			e.Response.Body = body
		}
		out.Endpoints[i] = e
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	return buf.Bytes(), nil
}

// toProject converts a fixture entry into a model project.
func (p FixtureProject) toProject() *model.Project {
	return &model.Project{ID: p.ID, Name: p.Name, Description: p.Description}
}

func projectEntry(p *model.Project) FixtureProject {
	return FixtureProject{ID: p.ID, Name: p.Name, Description: p.Description}
}

// toEndpoint converts a fixture entry into a model endpoint, encoding the body
// as JSON.
func (e FixtureEndpoint) toEndpoint() (*model.Endpoint, error) {
	ep := &model.Endpoint{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		Name:      e.Name,
		Method:    e.Method,
		Path:      e.Path,
		Response: model.ResponseSpec{
			Status:  e.Response.Status,
			Headers: e.Response.Headers,
			Delay:   e.Response.Delay,
		},
	}
	if e.Response.Body != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(e.Response.Body); err != nil {
			return nil, fmt.Errorf("response body is not JSON-compatible: %w", err)
		}
		ep.Response.Body = bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	}
	return ep, nil
}

func endpointEntry(ep *model.Endpoint) (FixtureEndpoint, error) {
	e := FixtureEndpoint{
		ID:        ep.ID,
		ProjectID: ep.ProjectID,
		Name:      ep.Name,
		Method:    ep.Method,
		Path:      ep.Path,
		Response: FixtureResponse{
			Status:  ep.Response.Status,
			Headers: ep.Response.Headers,
			Delay:   ep.Response.Delay,
		},
	}
	if len(ep.Response.Body) > 0 {
		if !json.Valid(ep.Response.Body) {
			return e, fmt.Errorf("endpoint %s: stored body is not JSON", ep.ID)
		}
		e.Response.Body = json.RawMessage(bytes.Clone(ep.Response.Body))
	}
	return e, nil
}

// yamlBody turns a JSON body into a YAML node. Parsing the JSON text as YAML
// keeps every scalar's literal text, so large integers survive unchanged.
func yamlBody(raw json.RawMessage) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err == nil && len(doc.Content) == 1 {
		n := doc.Content[0]
		blockStyle(n)
		return n, nil
	}

	// Some JSON escapes are not valid YAML; fall back to a decoded value.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("stored body is not JSON: %w", err)
	}
	return exactNumbers(v), nil
}

func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// exactNumbers replaces json.Number values with integer types where they fit.
func exactNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, c := range t {
			t[k] = exactNumbers(c)
		}
	case []any:
		for i, c := range t {
			t[i] = exactNumbers(c)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		f, _ := t.Float64()
		return f
	}
	return v
}
