package matching

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		wantParams  []string
		specificity int
	}{
		{name: "root", pattern: "/", specificity: 0},
		{name: "literal only", pattern: "/api/users", specificity: 2},
		{name: "colon param", pattern: "/users/:id", wantParams: []string{"id"}, specificity: 1},
		{name: "brace param", pattern: "/users/{id}", wantParams: []string{"id"}, specificity: 1},
		{name: "mixed params", pattern: "/orgs/:org/repos/{repo}", wantParams: []string{"org", "repo"}, specificity: 2},
		{name: "trailing slash", pattern: "/users/", specificity: 1},
		{name: "colon inside literal", pattern: "/v1/jobs:batch", specificity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, p.String())
			assert.Equal(t, tt.wantParams, p.Params())
			assert.Equal(t, tt.specificity, p.Specificity())
		})
	}
}

func TestCompileMalformed(t *testing.T) {
	patterns := []string{
		"",
		"users/:id",
		"/users/:",
		"/users/{}",
		"/users/{id",
		"/users/id}",
		"/users/a{b",
		"/a//b",
		"/users/:id/posts/:id",
		"/users/:i{d",
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			_, err := Compile(pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedPattern))

			var pe *PatternError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, pattern, pe.Pattern)
		})
	}
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		path       string
		wantMatch  bool
		wantParams map[string]string
	}{
		{name: "exact", pattern: "/api/users", path: "/api/users", wantMatch: true, wantParams: map[string]string{}},
		{name: "literal mismatch", pattern: "/api/users", path: "/api/orders", wantMatch: false},
		{name: "case sensitive literal", pattern: "/api/users", path: "/api/Users", wantMatch: false},
		{name: "param binds", pattern: "/users/:id", path: "/users/42", wantMatch: true, wantParams: map[string]string{"id": "42"}},
		{name: "brace param binds", pattern: "/users/{id}/posts/{post}", path: "/users/7/posts/9", wantMatch: true, wantParams: map[string]string{"id": "7", "post": "9"}},
		{name: "fewer segments", pattern: "/users/:id", path: "/users", wantMatch: false},
		{name: "more segments", pattern: "/users/:id", path: "/users/1/extra", wantMatch: false},
		{name: "empty segment never binds", pattern: "/a/:x/b", path: "/a//b", wantMatch: false},
		{name: "trailing slash on request", pattern: "/users/:id", path: "/users/42/", wantMatch: true, wantParams: map[string]string{"id": "42"}},
		{name: "root", pattern: "/", path: "/", wantMatch: true, wantParams: map[string]string{}},
		{name: "root vs segment", pattern: "/", path: "/x", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustCompile(tt.pattern)
			params, ok := p.Match(tt.path)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantParams, params)
			} else {
				assert.Nil(t, params)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath("/"))
	assert.Nil(t, SplitPath(""))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a/b"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a/b/"))
	assert.Equal(t, []string{"a", "", "b"}, SplitPath("/a//b"))
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("nope") })
}

func TestCompilerCachesResults(t *testing.T) {
	c := NewCompiler()

	p1, err := c.Compile("/users/:id")
	require.NoError(t, err)
	p2, err := c.Compile("/users/:id")
	require.NoError(t, err)
	assert.Same(t, p1, p2)

	_, err = c.Compile("/bad/{")
	require.ErrorIs(t, err, ErrMalformedPattern)
	_, err = c.Compile("/bad/{")
	require.ErrorIs(t, err, ErrMalformedPattern)

	assert.Equal(t, 2, c.Len())
}
