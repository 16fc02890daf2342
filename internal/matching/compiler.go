package matching

import "sync"

// Compiler compiles path patterns and caches the results, including failures,
// keyed by the pattern string. It is safe for concurrent use.
type Compiler struct {
	cache sync.Map // string -> *compiled
}

type compiled struct {
	pattern *Pattern
	err     error
}

// NewCompiler returns an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile returns the compiled form of pattern, compiling it on first use.
func (c *Compiler) Compile(pattern string) (*Pattern, error) {
	if v, ok := c.cache.Load(pattern); ok {
		cp := v.(*compiled)
		return cp.pattern, cp.err
	}
	p, err := Compile(pattern)
	v, _ := c.cache.LoadOrStore(pattern, &compiled{pattern: p, err: err})
	cp := v.(*compiled)
	return cp.pattern, cp.err
}

// Len returns the number of cached patterns.
func (c *Compiler) Len() int {
	n := 0
	c.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
