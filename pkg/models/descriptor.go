package models

// SourceUnit is one discovered source file and its raw text.
type SourceUnit struct {
	Path    string
	Content []byte
}

// ClassDescriptor describes the class declared by a single source unit.
type ClassDescriptor struct {
	Path    string `json:"path" yaml:"path" toon:"path"`
	IsClass bool   `json:"is_class" yaml:"is_class" toon:"is_class"`

	// ClassName is set iff IsClass.
	ClassName string `json:"class_name,omitempty" yaml:"class_name,omitempty" toon:"class_name"`

	// ParentName is the directly extended class, empty when the class has no declared parent.
	ParentName string `json:"parent_name,omitempty" yaml:"parent_name,omitempty" toon:"parent_name"`

	// ReferenceWeight counts the classes that transitively derive from this one.
	ReferenceWeight int `json:"reference_weight" yaml:"reference_weight" toon:"reference_weight"`

	// DerivedBy lists the names of the classes counted in ReferenceWeight, in discovery order.
	DerivedBy []string `json:"derived_by,omitempty" yaml:"derived_by,omitempty" toon:"derived_by"`
}

// HasParent reports whether the descriptor declares a parent class.
func (d ClassDescriptor) HasParent() bool {
	return d.IsClass && d.ParentName != ""
}

// WarningKind classifies a non-fatal ordering diagnostic.
type WarningKind string

const (
	WarnDuplicateClass WarningKind = "duplicate_class"
	WarnDanglingParent WarningKind = "dangling_parent"
)

// String implements fmt.Stringer, which toon uses for named string types.
func (w WarningKind) String() string { return string(w) }

// Warning is a diagnostic that never aborts ordering.
type Warning struct {
	Kind      WarningKind `json:"kind" yaml:"kind" toon:"kind"`
	Path      string      `json:"path" yaml:"path" toon:"path"`
	ClassName string      `json:"class_name,omitempty" yaml:"class_name,omitempty" toon:"class_name"`
	Message   string      `json:"message" yaml:"message" toon:"message"`
}

// OrderResult is the outcome of ordering a set of source units.
type OrderResult struct {
	// Paths is the final ordering: non-class units first, then classes by descending weight.
	Paths []string `json:"paths" yaml:"paths" toon:"paths"`

	// Classes holds the class descriptors in weighted order.
	Classes []ClassDescriptor `json:"classes" yaml:"classes" toon:"classes"`

	// NonClass holds the paths without a class declaration, in discovery order.
	NonClass []string `json:"non_class,omitempty" yaml:"non_class,omitempty" toon:"non_class"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty" toon:"warnings"`
}

// HasWarnings reports whether any diagnostics were produced.
func (r *OrderResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}
