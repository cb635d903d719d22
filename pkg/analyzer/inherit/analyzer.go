// Package inherit orders TypeScript source units so that classes follow the
// classes they extend.
//
// The pipeline is: extract a descriptor per unit, index classes by name, count for
// each class how many other classes derive from it, sort classes by that weight
// (descending, stable), then emit non-class units followed by the sorted classes.
package inherit

import (
	"fmt"

	"github.com/panbanda/tsorder/pkg/extract"
	"github.com/panbanda/tsorder/pkg/models"
)

// Analyzer runs the ordering pipeline.
type Analyzer struct {
	extractor extract.Extractor
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExtractor sets the extractor used to describe units.
func WithExtractor(e extract.Extractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.extractor = e
		}
	}
}

// New creates an analyzer. The default extractor is the structural scan.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{extractor: extract.ScanExtractor{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Describe extracts one descriptor per unit, preserving order.
func (a *Analyzer) Describe(units []models.SourceUnit) []models.ClassDescriptor {
	descs := make([]models.ClassDescriptor, len(units))
	for i, u := range units {
		descs[i] = a.extractor.Extract(u.Path, u.Content)
	}
	return descs
}

// Order extracts descriptors from units and orders them.
func (a *Analyzer) Order(units []models.SourceUnit) (*models.OrderResult, error) {
	return OrderDescriptors(a.Describe(units))
}

// OrderDescriptors orders already extracted descriptors, given in discovery order.
// The input slice is not modified.
func OrderDescriptors(descs []models.ClassDescriptor) (*models.OrderResult, error) {
	var nonClass []string
	classes := make([]models.ClassDescriptor, 0, len(descs))
	for _, d := range descs {
		if d.IsClass {
			classes = append(classes, d)
		} else {
			nonClass = append(nonClass, d.Path)
		}
	}

	reg := NewRegistry(classes)
	if err := CountReferences(reg, classes); err != nil {
		return nil, fmt.Errorf("counting references: %w", err)
	}
	SortByWeight(classes)

	return &models.OrderResult{
		Paths:    Assemble(nonClass, classes),
		Classes:  classes,
		NonClass: nonClass,
		Warnings: reg.Duplicates(),
	}, nil
}
