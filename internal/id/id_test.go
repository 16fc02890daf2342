package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		v := New()
		assert.True(t, Valid(v), "New() = %q is not a UUID", v)
		_, dup := seen[v]
		assert.False(t, dup, "duplicate id %q", v)
		seen[v] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-uuid"))
	assert.True(t, Valid("0190a2b0-7c4e-7d2a-9f3b-1c2d3e4f5a6b"))
}
