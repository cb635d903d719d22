package inherit

import (
	"testing"

	"github.com/panbanda/tsorder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHealthyForest(t *testing.T) {
	descs := []models.ClassDescriptor{
		plain("util.ts"),
		class("Shape.ts", "Shape", ""),
		class("Rect.ts", "Rect", "Shape"),
		class("Square.ts", "Square", "Rect"),
		class("View.ts", "View", "React.Component"),
	}

	report := CheckDescriptors(descs)
	require.True(t, report.Healthy())

	assert.Equal(t, 5, report.Summary.TotalUnits)
	assert.Equal(t, 4, report.Summary.Classes)
	assert.Equal(t, 2, report.Summary.Edges)
	assert.Equal(t, 2, report.Summary.Roots)
	assert.Equal(t, 2, report.Summary.MaxDepth)
	assert.Equal(t, 1, report.Summary.Dangling)
	assert.Zero(t, report.Summary.Misorderings)
	assert.Empty(t, report.Misorderings)

	assert.Equal(t, []models.InheritanceEdge{
		{Child: "Rect", Parent: "Shape"},
		{Child: "Square", Parent: "Rect"},
	}, report.Edges)

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, models.WarnDanglingParent, report.Warnings[0].Kind)
	assert.Equal(t, "View", report.Warnings[0].ClassName)
}

func TestCheckCycles(t *testing.T) {
	descs := []models.ClassDescriptor{
		class("P.ts", "P", "Q"),
		class("Q.ts", "Q", "P"),
		class("Self.ts", "Self", "Self"),
		class("Into.ts", "Into", "P"),
		class("Ok.ts", "Ok", ""),
	}

	report := CheckDescriptors(descs)
	assert.False(t, report.Healthy())
	assert.Equal(t, [][]string{{"P", "Q"}, {"Self"}}, report.Cycles)
	assert.Equal(t, 2, report.Summary.Cycles)
}

func TestCheckCycleThroughShadowedDuplicate(t *testing.T) {
	descs := []models.ClassDescriptor{
		class("a/A.ts", "A", "B"),
		class("B.ts", "B", "A"),
		class("b/A.ts", "A", ""),
	}

	report := CheckDescriptors(descs)
	assert.False(t, report.Healthy())
	assert.Equal(t, 1, report.Summary.Duplicates)
	require.Len(t, report.Cycles, 1)
	assert.ElementsMatch(t, []string{"A", "B"}, report.Cycles[0])
}

func TestAnalyzerCheck(t *testing.T) {
	units := []models.SourceUnit{
		unit("Base.ts", "export class Base {}"),
		unit("Impl.ts", "export class Impl extends Base {}"),
	}
	report := New().Check(units)
	assert.True(t, report.Healthy())
	assert.Equal(t, 1, report.Summary.Edges)
	assert.Equal(t, 1, report.Summary.MaxDepth)
}

func TestCheckMisorderingThroughShadowedClass(t *testing.T) {
	// The shadowed Rect extends Shape2, but the squares resolve Rect to the
	// registered declaration, which has no parent. Rect then outweighs Shape2.
	descs := []models.ClassDescriptor{
		class("old/Rect.ts", "Rect", "Shape2"),
		class("a/Shape2.ts", "Shape2", ""),
		class("new/Rect.ts", "Rect", ""),
		class("Sq1.ts", "Sq1", "Rect"),
		class("Sq2.ts", "Sq2", "Rect"),
		class("b/Shape2.ts", "Shape2", ""),
	}

	report := CheckDescriptors(descs)
	require.True(t, report.Healthy())
	assert.Equal(t, 2, report.Summary.Duplicates)
	assert.Equal(t, []models.Misordering{{
		Class:         "Rect",
		ClassPath:     "old/Rect.ts",
		Ancestor:      "Shape2",
		AncestorPath:  "b/Shape2.ts",
		ClassIndex:    0,
		AncestorIndex: 3,
	}}, report.Misorderings)
	assert.Equal(t, 1, report.Summary.Misorderings)
}
