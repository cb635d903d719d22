package inherit

import "github.com/panbanda/tsorder/pkg/models"

// SortByWeight orders descs by descending ReferenceWeight in place.
//
// Adjacent elements are swapped only when the right one is strictly heavier, and
// passes repeat until one makes no swap, so equal weights keep their relative order.
// This is a heuristic and not a topological sort.
func SortByWeight(descs []models.ClassDescriptor) {
	for swapped := true; swapped; {
		swapped = false
		for j := 0; j < len(descs)-1; j++ {
			if descs[j+1].ReferenceWeight > descs[j].ReferenceWeight {
				descs[j], descs[j+1] = descs[j+1], descs[j]
				swapped = true
			}
		}
	}
}

// Assemble returns the final ordering: nonClass paths as given, followed by the
// paths of sorted.
func Assemble(nonClass []string, sorted []models.ClassDescriptor) []string {
	paths := make([]string, 0, len(nonClass)+len(sorted))
	paths = append(paths, nonClass...)
	for _, d := range sorted {
		paths = append(paths, d.Path)
	}
	return paths
}
