package inherit

import (
	"fmt"

	"github.com/panbanda/tsorder/pkg/models"
)

// Registry maps class names to descriptors for name-based lookups.
// It is immutable after construction.
type Registry struct {
	descs      []models.ClassDescriptor
	byName     map[string]int
	duplicates []models.Warning
}

// NewRegistry indexes the class descriptors in descs by name. Non-class entries are
// ignored. When a name repeats, the last descriptor wins and a warning is recorded.
func NewRegistry(descs []models.ClassDescriptor) *Registry {
	r := &Registry{
		descs:  descs,
		byName: make(map[string]int, len(descs)),
	}
	for i, d := range descs {
		if !d.IsClass {
			continue
		}
		if prev, ok := r.byName[d.ClassName]; ok {
			r.duplicates = append(r.duplicates, models.Warning{
				Kind:      models.WarnDuplicateClass,
				Path:      d.Path,
				ClassName: d.ClassName,
				Message:   fmt.Sprintf("class %s is also declared in %s; using %s", d.ClassName, descs[prev].Path, d.Path),
			})
		}
		r.byName[d.ClassName] = i
	}
	return r
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (models.ClassDescriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return models.ClassDescriptor{}, false
	}
	return r.descs[i], true
}

// Index returns the position in the indexed slice of the descriptor registered under name.
func (r *Registry) Index(name string) (int, bool) {
	i, ok := r.byName[name]
	return i, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Len returns the number of distinct registered class names.
func (r *Registry) Len() int {
	return len(r.byName)
}

// Duplicates returns one warning per overwritten registration.
func (r *Registry) Duplicates() []models.Warning {
	return r.duplicates
}
