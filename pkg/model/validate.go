package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Methods lists the HTTP methods an endpoint may be registered for.
var Methods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

func methodsAsAny() []interface{} {
	out := make([]interface{}, len(Methods))
	for i, m := range Methods {
		out[i] = m
	}
	return out
}

var errPathNotAbsolute = errors.New("must start with /")

var errInvalidJSON = errors.New("must be valid JSON")

var errEmptyHeaderName = errors.New("header names must not be empty")

// Validate checks the project fields.
func (p *Project) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Length(0, 2000)),
	)
}

// Validate checks the endpoint fields. Call Normalize first so the method is
// upper-cased and the status defaulted.
func (e *Endpoint) Validate() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Method, validation.Required, validation.In(methodsAsAny()...)),
		validation.Field(&e.Path, validation.Required, validation.By(absolutePath)),
		validation.Field(&e.Name, validation.Length(0, 200)),
		validation.Field(&e.Response),
	)
}

// Validate checks the response spec fields.
func (r ResponseSpec) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.Min(100), validation.Max(599)),
		validation.Field(&r.Delay, validation.Min(0)),
		validation.Field(&r.Headers, validation.By(uniqueHeaderNames)),
		validation.Field(&r.Body, validation.By(rawJSON)),
	)
}

// Validate checks the settings fields.
func (s *GlobalSettings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.CORSOrigins, validation.Each(validation.Required)),
		validation.Field(&s.CORSMethods, validation.Each(validation.Required)),
		validation.Field(&s.CORSHeaders, validation.Each(validation.Required)),
		validation.Field(&s.DefaultHeaders, validation.By(uniqueHeaderNames)),
	)
}

func absolutePath(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "/") {
		return errPathNotAbsolute
	}
	return nil
}

// uniqueHeaderNames rejects header maps whose keys collide once canonicalized,
// such as "x-a" and "X-A".
func uniqueHeaderNames(value interface{}) error {
	headers, _ := value.(map[string]string)
	seen := make(map[string]string, len(headers))
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		if strings.TrimSpace(name) == "" {
			return errEmptyHeaderName
		}
		canonical := http.CanonicalHeaderKey(name)
		if prev, ok := seen[canonical]; ok {
			return fmt.Errorf("duplicate header name %q (also given as %q)", name, prev)
		}
		seen[canonical] = name
	}
	return nil
}

func rawJSON(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) {
		return errInvalidJSON
	}
	return nil
}
