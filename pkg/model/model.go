package model

import (
	"bytes"
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"
)

// Project is a named group of mock endpoints.
type Project struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Clone returns a copy of the project.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Endpoint is a stored (method, path pattern, response) triple.
// An empty ProjectID places the endpoint in the global scope.
type Endpoint struct {
	ID        string       `json:"id" yaml:"id"`
	ProjectID string       `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	Name      string       `json:"name,omitempty" yaml:"name,omitempty"`
	Method    string       `json:"method" yaml:"method"`
	Path      string       `json:"path" yaml:"path"`
	Response  ResponseSpec `json:"response" yaml:"response"`
	CreatedAt time.Time    `json:"createdAt" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time    `json:"updatedAt" yaml:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the endpoint.
func (e *Endpoint) Clone() *Endpoint {
	if e == nil {
		return nil
	}
	c := *e
	c.Response = e.Response.Clone()
	return &c
}

// Normalize upper-cases the method and fills response defaults.
func (e *Endpoint) Normalize() {
	e.Method = NormalizeMethod(e.Method)
	e.Path = strings.TrimSpace(e.Path)
	if e.Response.Status == 0 {
		e.Response.Status = http.StatusOK
	}
}

// NormalizeMethod returns the canonical upper-case form of an HTTP method.
func NormalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}

// ResponseSpec describes the simulated response of an endpoint.
type ResponseSpec struct {
	// Status is the HTTP status code. Zero means 200.
	Status int `json:"status" yaml:"status"`

	// Headers are endpoint specific response headers. They override the
	// global default headers with the same (case-insensitive) name.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the raw JSON body, written to the client unmodified.
	Body json.RawMessage `json:"body,omitempty" yaml:"-"`

	// Delay is the artificial latency in milliseconds.
	Delay int `json:"delay,omitempty" yaml:"delay,omitempty"`
}

// Clone returns a deep copy of the response spec.
func (r ResponseSpec) Clone() ResponseSpec {
	c := r
	if r.Headers != nil {
		c.Headers = maps.Clone(r.Headers)
	}
	if r.Body != nil {
		c.Body = bytes.Clone(r.Body)
	}
	return c
}

// DelayDuration returns the configured delay as a time.Duration.
func (r ResponseSpec) DelayDuration() time.Duration {
	if r.Delay <= 0 {
		return 0
	}
	return time.Duration(r.Delay) * time.Millisecond
}

// GlobalSettings is the deployment-wide policy applied to every mock response.
type GlobalSettings struct {
	// CORSOrigins is the origin allow-list. "*" allows every origin.
	CORSOrigins []string `json:"corsOrigins" yaml:"corsOrigins"`

	// CORSMethods is sent as Access-Control-Allow-Methods.
	CORSMethods []string `json:"corsMethods" yaml:"corsMethods"`

	// CORSHeaders is sent as Access-Control-Allow-Headers.
	CORSHeaders []string `json:"corsHeaders" yaml:"corsHeaders"`

	// DefaultHeaders are applied to every mock response before endpoint headers.
	DefaultHeaders map[string]string `json:"defaultHeaders" yaml:"defaultHeaders"`
}

// DefaultSettings returns the settings used when none have been persisted or
// the persisted copy cannot be read.
func DefaultSettings() *GlobalSettings {
	return &GlobalSettings{
		CORSOrigins: []string{"*"},
		CORSMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		CORSHeaders: []string{"Content-Type", "Authorization"},
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// Clone returns a deep copy of the settings.
func (s *GlobalSettings) Clone() *GlobalSettings {
	if s == nil {
		return nil
	}
	return &GlobalSettings{
		CORSOrigins:    slices.Clone(s.CORSOrigins),
		CORSMethods:    slices.Clone(s.CORSMethods),
		CORSHeaders:    slices.Clone(s.CORSHeaders),
		DefaultHeaders: maps.Clone(s.DefaultHeaders),
	}
}

// Asset is a static console file kept in the durable store.
type Asset struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}
