package inherit

import "github.com/panbanda/tsorder/pkg/models"

// Ancestors returns the parent chain of d, nearest first. The chain follows
// registered classes and ends with the first parent that has no parent of its own
// or is not registered (a dangling parent is still included as the last name).
// A chain that revisits a class returns a *CycleError.
func (r *Registry) Ancestors(d models.ClassDescriptor) ([]string, error) {
	if !d.IsClass {
		return nil, nil
	}

	var chain []string
	visited := map[string]struct{}{d.ClassName: {}}
	walked := []string{d.ClassName}
	cur := d
	for cur.ParentName != "" {
		parent := cur.ParentName
		if _, seen := visited[parent]; seen {
			return nil, &CycleError{Chain: append(walked, parent)}
		}
		visited[parent] = struct{}{}
		walked = append(walked, parent)
		chain = append(chain, parent)

		next, ok := r.Lookup(parent)
		if !ok {
			break
		}
		cur = next
	}
	return chain, nil
}

// DerivesFrom reports whether candidate transitively extends ancestor.
//
// It is false when candidate is not a class registered under its own name, or when
// the chain ends at an absent or unregistered parent. The whole chain is walked
// before answering, so a cyclic chain is reported even when ancestor appears in it.
func (r *Registry) DerivesFrom(candidate, ancestor models.ClassDescriptor) (bool, error) {
	if !candidate.IsClass || !r.Has(candidate.ClassName) {
		return false, nil
	}
	if !ancestor.IsClass {
		return false, nil
	}

	chain, err := r.Ancestors(candidate)
	if err != nil {
		return false, err
	}
	for _, name := range chain {
		if name == ancestor.ClassName {
			return true, nil
		}
	}
	return false, nil
}
