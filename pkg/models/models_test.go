package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningKindString(t *testing.T) {
	assert.Equal(t, "duplicate_class", WarnDuplicateClass.String())
	assert.Equal(t, "dangling_parent", WarnDanglingParent.String())
}

func TestHasParent(t *testing.T) {
	tests := []struct {
		name string
		desc ClassDescriptor
		want bool
	}{
		{"class with parent", ClassDescriptor{IsClass: true, ClassName: "Rect", ParentName: "Shape"}, true},
		{"root class", ClassDescriptor{IsClass: true, ClassName: "Shape"}, false},
		{"non-class unit", ClassDescriptor{Path: "util.ts"}, false},
		{"stale parent on non-class", ClassDescriptor{ParentName: "Shape"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.desc.HasParent())
		})
	}
}

func TestInheritanceReportHealthy(t *testing.T) {
	assert.True(t, (&InheritanceReport{}).Healthy())
	assert.True(t, (&InheritanceReport{Misorderings: []Misordering{{Class: "A"}}}).Healthy())
	assert.False(t, (&InheritanceReport{Cycles: [][]string{{"A", "B", "A"}}}).Healthy())
}
