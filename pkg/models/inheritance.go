package models

// InheritanceEdge links a class to the class it extends.
type InheritanceEdge struct {
	Child  string `json:"child" yaml:"child" toon:"child"`
	Parent string `json:"parent" yaml:"parent" toon:"parent"`
}

// Misordering is a pair where the weighted order emits a class before one of its ancestors.
type Misordering struct {
	Class         string `json:"class" yaml:"class" toon:"class"`
	ClassPath     string `json:"class_path" yaml:"class_path" toon:"class_path"`
	Ancestor      string `json:"ancestor" yaml:"ancestor" toon:"ancestor"`
	AncestorPath  string `json:"ancestor_path" yaml:"ancestor_path" toon:"ancestor_path"`
	ClassIndex    int    `json:"class_index" yaml:"class_index" toon:"class_index"`
	AncestorIndex int    `json:"ancestor_index" yaml:"ancestor_index" toon:"ancestor_index"`
}

// InheritanceSummary aggregates counts for a check report.
type InheritanceSummary struct {
	TotalUnits   int `json:"total_units" yaml:"total_units" toon:"total_units"`
	Classes      int `json:"classes" yaml:"classes" toon:"classes"`
	Edges        int `json:"edges" yaml:"edges" toon:"edges"`
	Roots        int `json:"roots" yaml:"roots" toon:"roots"`
	MaxDepth     int `json:"max_depth" yaml:"max_depth" toon:"max_depth"`
	Cycles       int `json:"cycles" yaml:"cycles" toon:"cycles"`
	Dangling     int `json:"dangling" yaml:"dangling" toon:"dangling"`
	Duplicates   int `json:"duplicates" yaml:"duplicates" toon:"duplicates"`
	Misorderings int `json:"misorderings" yaml:"misorderings" toon:"misorderings"`
}

// InheritanceReport is the result of checking an inheritance graph for problems.
type InheritanceReport struct {
	Edges        []InheritanceEdge  `json:"edges" yaml:"edges" toon:"edges"`
	Cycles       [][]string         `json:"cycles,omitempty" yaml:"cycles,omitempty" toon:"cycles"`
	Warnings     []Warning          `json:"warnings,omitempty" yaml:"warnings,omitempty" toon:"warnings"`
	Misorderings []Misordering      `json:"misorderings,omitempty" yaml:"misorderings,omitempty" toon:"misorderings"`
	Summary      InheritanceSummary `json:"summary" yaml:"summary" toon:"summary"`
}

// Healthy reports whether the graph has no cycles.
func (r *InheritanceReport) Healthy() bool {
	return len(r.Cycles) == 0
}
