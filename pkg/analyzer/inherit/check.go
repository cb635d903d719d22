package inherit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/panbanda/tsorder/pkg/models"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Check extracts descriptors from units and checks their inheritance graph.
func (a *Analyzer) Check(units []models.SourceUnit) *models.InheritanceReport {
	return CheckDescriptors(a.Describe(units))
}

// CheckDescriptors reports cycles, dangling parents, duplicate class names, and
// places where the weighted order emits a class before one of its ancestors.
// It never changes the order.
func CheckDescriptors(descs []models.ClassDescriptor) *models.InheritanceReport {
	classes := make([]models.ClassDescriptor, 0, len(descs))
	for _, d := range descs {
		if d.IsClass {
			classes = append(classes, d)
		}
	}
	reg := NewRegistry(classes)

	report := &models.InheritanceReport{
		Warnings: append([]models.Warning(nil), reg.Duplicates()...),
	}
	report.Summary.TotalUnits = len(descs)
	report.Summary.Classes = len(classes)
	report.Summary.Duplicates = len(reg.Duplicates())

	g := simple.NewDirectedGraph()
	for i, d := range classes {
		if idx, _ := reg.Index(d.ClassName); idx == i {
			g.AddNode(simple.Node(i))
		}
	}

	for i, d := range classes {
		if d.ParentName == "" {
			report.Summary.Roots++
			continue
		}
		parentIdx, ok := reg.Index(d.ParentName)
		if !ok {
			report.Summary.Roots++
			report.Summary.Dangling++
			report.Warnings = append(report.Warnings, models.Warning{
				Kind:      models.WarnDanglingParent,
				Path:      d.Path,
				ClassName: d.ClassName,
				Message:   fmt.Sprintf("class %s extends %s, which is not declared in any scanned unit", d.ClassName, d.ParentName),
			})
			continue
		}
		report.Edges = append(report.Edges, models.InheritanceEdge{Child: d.ClassName, Parent: d.ParentName})

		childIdx, _ := reg.Index(d.ClassName)
		if childIdx != i {
			// Shadowed duplicate: not part of the resolvable graph.
			continue
		}
		if parentIdx == childIdx {
			report.Cycles = append(report.Cycles, []string{d.ClassName})
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(childIdx), T: simple.Node(parentIdx)})
	}
	report.Summary.Edges = len(report.Edges)

	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		ids := make([]int, len(scc))
		for i, n := range scc {
			ids[i] = int(n.ID())
		}
		sort.Ints(ids)
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = classes[id].ClassName
		}
		report.Cycles = append(report.Cycles, names)
	}
	report.Cycles = append(report.Cycles, shadowedCycles(reg, classes, report.Cycles)...)
	sort.SliceStable(report.Cycles, func(i, j int) bool {
		a, _ := reg.Index(report.Cycles[i][0])
		b, _ := reg.Index(report.Cycles[j][0])
		return a < b
	})
	report.Summary.Cycles = len(report.Cycles)

	if !report.Healthy() {
		return report
	}

	for _, d := range classes {
		chain, _ := reg.Ancestors(d)
		depth := 0
		for _, name := range chain {
			if reg.Has(name) {
				depth++
			}
		}
		if depth > report.Summary.MaxDepth {
			report.Summary.MaxDepth = depth
		}
	}

	report.Misorderings = misorderings(reg, descs)
	report.Summary.Misorderings = len(report.Misorderings)
	return report
}

// misorderings orders descs and lists every class emitted before one of its
// registered ancestors. Names resolve through reg, the discovery-order registry,
// so a duplicated ancestor is always the declaration that won registration.
// descs must be acyclic.
func misorderings(reg *Registry, descs []models.ClassDescriptor) []models.Misordering {
	result, err := OrderDescriptors(descs)
	if err != nil {
		return nil
	}

	offset := len(result.NonClass)
	position := make(map[string]int, len(result.Classes))
	for i, d := range result.Classes {
		position[d.Path] = offset + i
	}

	var out []models.Misordering
	for _, d := range result.Classes {
		chain, err := reg.Ancestors(d)
		if err != nil {
			continue
		}
		at := position[d.Path]
		for _, name := range chain {
			ancestor, ok := reg.Lookup(name)
			if !ok {
				continue
			}
			ancestorAt, ok := position[ancestor.Path]
			if !ok || ancestorAt <= at {
				continue
			}
			out = append(out, models.Misordering{
				Class:         d.ClassName,
				ClassPath:     d.Path,
				Ancestor:      name,
				AncestorPath:  ancestor.Path,
				ClassIndex:    at,
				AncestorIndex: ancestorAt,
			})
		}
	}
	return out
}

// shadowedCycles finds cyclic chains the graph cannot show because they pass
// through a duplicate declaration that lost its registration.
func shadowedCycles(reg *Registry, classes []models.ClassDescriptor, known [][]string) [][]string {
	covered := make(map[string]bool)
	for _, cycle := range known {
		for _, name := range cycle {
			covered[name] = true
		}
	}

	var extra [][]string
	for _, d := range classes {
		_, err := reg.Ancestors(d)
		var cycleErr *CycleError
		if !errors.As(err, &cycleErr) {
			continue
		}
		repeated := cycleErr.Chain[len(cycleErr.Chain)-1]
		if covered[repeated] {
			continue
		}
		start := 0
		for i, name := range cycleErr.Chain {
			if name == repeated {
				start = i
				break
			}
		}
		cycle := cycleErr.Chain[start : len(cycleErr.Chain)-1]
		for _, name := range cycle {
			covered[name] = true
		}
		extra = append(extra, cycle)
	}
	return extra
}
