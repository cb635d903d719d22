package cache

import (
	"encoding/json"
	"sync/atomic"

	"github.com/panbanda/tsorder/pkg/extract"
	"github.com/panbanda/tsorder/pkg/models"
)

// declaration is the cached part of a descriptor. Weights are never cached since
// they depend on the whole unit set.
type declaration struct {
	IsClass    bool   `json:"is_class"`
	ClassName  string `json:"class_name,omitempty"`
	ParentName string `json:"parent_name,omitempty"`
}

// Extractor wraps an extractor and reuses earlier results for unchanged content.
type Extractor struct {
	inner  extract.Extractor
	cache  *Cache
	mode   extract.Mode
	hits   atomic.Int64
	misses atomic.Int64
}

// NewExtractor caches inner's results. Entries are keyed by mode and path, and
// validated against the content hash.
func NewExtractor(inner extract.Extractor, mode extract.Mode, c *Cache) *Extractor {
	return &Extractor{inner: inner, cache: c, mode: mode}
}

// Extract implements extract.Extractor. Cache failures fall back to extraction.
func (e *Extractor) Extract(path string, src []byte) models.ClassDescriptor {
	key := string(e.mode) + "\x00" + path
	hash := HashBytes(src)

	if data, ok := e.cache.GetWithHash(key, hash); ok {
		var decl declaration
		if err := json.Unmarshal(data, &decl); err == nil {
			e.hits.Add(1)
			return models.ClassDescriptor{
				Path:       path,
				IsClass:    decl.IsClass,
				ClassName:  decl.ClassName,
				ParentName: decl.ParentName,
			}
		}
	}

	e.misses.Add(1)
	desc := e.inner.Extract(path, src)
	if data, err := json.Marshal(declaration{
		IsClass:    desc.IsClass,
		ClassName:  desc.ClassName,
		ParentName: desc.ParentName,
	}); err == nil {
		_ = e.cache.SetWithHash(key, hash, data)
	}
	return desc
}

// Hits returns the number of cache hits so far.
func (e *Extractor) Hits() int64 {
	return e.hits.Load()
}

// Misses returns the number of extractions performed so far.
func (e *Extractor) Misses() int64 {
	return e.misses.Load()
}
