package shader

import (
	"log/slog"
	"strings"

	"github.com/gogpu/billboard/internal/cache"
)

// DefaultPermutationCapacity is the number of compiled permutations a
// CachingCompiler keeps when created with a non-positive capacity.
const DefaultPermutationCapacity = 32

type permutationKey struct {
	library string
	entries string
	defines uint64
}

// CachingCompiler keeps recently compiled permutations so that returning
// to an earlier define set does not compile again. Failed compilations
// are not cached.
type CachingCompiler struct {
	inner Compiler
	cache *cache.Cache[permutationKey, *Module]
}

var _ Compiler = (*CachingCompiler)(nil)

// NewCachingCompiler wraps inner with an LRU of the given capacity.
func NewCachingCompiler(inner Compiler, capacity int) *CachingCompiler {
	if capacity <= 0 {
		capacity = DefaultPermutationCapacity
	}
	return &CachingCompiler{
		inner: inner,
		cache: cache.New[permutationKey, *Module](capacity),
	}
}

// Compile returns the cached module for desc and defines, compiling it
// with the wrapped compiler on a miss.
func (c *CachingCompiler) Compile(desc *ProgramDesc, defines DefineList) (*Module, error) {
	key := permutationKey{
		library: desc.Library,
		entries: strings.Join(desc.Entries(), ","),
		defines: defines.Hash(),
	}
	if m, ok := c.cache.Get(key); ok {
		slogger().Debug("shader: permutation cache hit", slog.String("library", desc.Library))
		return m, nil
	}
	m, err := c.inner.Compile(desc, defines)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, m)
	return m, nil
}

// Stats returns the permutation cache statistics.
func (c *CachingCompiler) Stats() cache.Stats {
	return c.cache.Stats()
}
