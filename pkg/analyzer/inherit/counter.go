package inherit

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/tsorder/pkg/models"
)

// CountReferences sets, for every class in descs, ReferenceWeight to the number of
// other classes that transitively derive from it and DerivedBy to their names.
//
// Every ordered pair (X, Y) with X != Y is resolved, so the cost is O(n² · d) for
// chain depth d. Weights are reset before counting. The first cyclic chain aborts
// the count with a *CycleError.
func CountReferences(reg *Registry, descs []models.ClassDescriptor) error {
	for j := range descs {
		descs[j].ReferenceWeight = 0
		descs[j].DerivedBy = nil
	}

	for j := range descs {
		if !descs[j].IsClass {
			continue
		}
		descendants := roaring.New()
		for k := range descs {
			if k == j || !descs[k].IsClass {
				continue
			}
			ok, err := reg.DerivesFrom(descs[k], descs[j])
			if err != nil {
				return err
			}
			if ok {
				descendants.Add(uint32(k))
			}
		}

		descs[j].ReferenceWeight = int(descendants.GetCardinality())
		if descendants.IsEmpty() {
			continue
		}
		names := make([]string, 0, descs[j].ReferenceWeight)
		it := descendants.Iterator()
		for it.HasNext() {
			names = append(names, descs[it.Next()].ClassName)
		}
		descs[j].DerivedBy = names
	}
	return nil
}
