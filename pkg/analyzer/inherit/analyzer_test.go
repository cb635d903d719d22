package inherit

import (
	"errors"
	"sort"
	"testing"

	"github.com/panbanda/tsorder/pkg/extract"
	"github.com/panbanda/tsorder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderChain(t *testing.T) {
	units := []models.SourceUnit{
		unit("A.ts", "var config = {};"),
		unit("B.ts", "export class B {}"),
		unit("C.ts", "export class C extends B {}"),
		unit("D.ts", "export class D extends C {}"),
	}

	result, err := New().Order(units)
	require.NoError(t, err)

	assert.Equal(t, []string{"A.ts", "B.ts", "C.ts", "D.ts"}, result.Paths)
	assert.Equal(t, map[string]int{"B": 2, "C": 1, "D": 0}, weights(result.Classes))
	assert.Equal(t, []string{"A.ts"}, result.NonClass)
	assert.False(t, result.HasWarnings())
}

func TestOrderReordersByWeight(t *testing.T) {
	units := []models.SourceUnit{
		unit("X.ts", "export class X extends Y {}"),
		unit("Y.ts", "export class Y {}"),
	}

	result, err := New().Order(units)
	require.NoError(t, err)

	assert.Equal(t, []string{"Y.ts", "X.ts"}, result.Paths)
	assert.Equal(t, map[string]int{"Y": 1, "X": 0}, weights(result.Classes))
}

func TestOrderRejectsCycle(t *testing.T) {
	units := []models.SourceUnit{
		unit("P.ts", "export class P extends Q {}"),
		unit("Q.ts", "export class Q extends P {}"),
	}

	result, err := New().Order(units)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrCyclicInheritance))
}

func TestOrderNonClassFirstInDiscoveryOrder(t *testing.T) {
	units := []models.SourceUnit{
		unit("z.ts", "export class Leaf extends Base {}"),
		unit("m.ts", "declare var $: any;"),
		unit("a.ts", "export class Base {}"),
		unit("b.ts", "export interface Thing {}"),
		unit("c.ts", ""),
	}

	result, err := New().Order(units)
	require.NoError(t, err)

	assert.Equal(t, []string{"m.ts", "b.ts", "c.ts", "a.ts", "z.ts"}, result.Paths)
}

func TestOrderIsPermutationAndIdempotent(t *testing.T) {
	units := []models.SourceUnit{
		unit("shapes/Square.ts", "export class Square extends Rect {}"),
		unit("shapes/Rect.ts", "export class Rect extends Shape {}"),
		unit("consts.ts", "export const N = 1;"),
		unit("shapes/Shape.ts", "export class Shape {}"),
		unit("shapes/Circle.ts", "export class Circle extends Shape {}"),
		unit("ui/View.ts", "export class View extends React.Component {}"),
		unit("ui/Button.ts", "export class Button extends View {}"),
		unit("types.d.ts", "declare module 'x' {}"),
	}

	first, err := New().Order(units)
	require.NoError(t, err)
	second, err := New().Order(units)
	require.NoError(t, err)
	assert.Equal(t, first.Paths, second.Paths)

	var input []string
	for _, u := range units {
		input = append(input, u.Path)
	}
	got := append([]string(nil), first.Paths...)
	sort.Strings(input)
	sort.Strings(got)
	assert.Equal(t, input, got)

	pos := make(map[string]int)
	for i, p := range first.Paths {
		pos[p] = i
	}
	assert.Less(t, pos["consts.ts"], pos["types.d.ts"])
	assert.Less(t, pos["types.d.ts"], pos["shapes/Shape.ts"])
	assert.Less(t, pos["shapes/Shape.ts"], pos["shapes/Rect.ts"])
	assert.Less(t, pos["shapes/Rect.ts"], pos["shapes/Square.ts"])
	assert.Less(t, pos["ui/View.ts"], pos["ui/Button.ts"])
}

func TestOrderDuplicateWarning(t *testing.T) {
	units := []models.SourceUnit{
		unit("a/Model.ts", "export class Model {}"),
		unit("b/Model.ts", "export class Model {}"),
	}

	result, err := New().Order(units)
	require.NoError(t, err)
	require.True(t, result.HasWarnings())
	assert.Equal(t, models.WarnDuplicateClass, result.Warnings[0].Kind)
	assert.Len(t, result.Paths, 2)
}

func TestOrderDescriptorsDoesNotModifyInput(t *testing.T) {
	descs := []models.ClassDescriptor{class("X.ts", "X", "Y"), class("Y.ts", "Y", "")}
	_, err := OrderDescriptors(descs)
	require.NoError(t, err)

	assert.Equal(t, "X", descs[0].ClassName)
	assert.Zero(t, descs[1].ReferenceWeight)
}

func TestOrderEmpty(t *testing.T) {
	result, err := New().Order(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Paths)
}

type fixedExtractor map[string]models.ClassDescriptor

func (f fixedExtractor) Extract(path string, _ []byte) models.ClassDescriptor {
	if d, ok := f[path]; ok {
		return d
	}
	return models.ClassDescriptor{Path: path}
}

func TestWithExtractor(t *testing.T) {
	ext := fixedExtractor{"one.ts": class("one.ts", "One", "")}
	a := New(WithExtractor(ext))

	descs := a.Describe([]models.SourceUnit{unit("one.ts", "ignored"), unit("two.ts", "export class Two {}")})
	assert.True(t, descs[0].IsClass)
	assert.False(t, descs[1].IsClass)

	assert.IsType(t, extract.ScanExtractor{}, New(WithExtractor(nil)).extractor)
}

func TestOrderWithSyntaxExtractor(t *testing.T) {
	units := []models.SourceUnit{
		unit("Child.ts", "/* export class Fake */\nexport class Child extends Parent {}"),
		unit("Parent.ts", "export class Parent {}"),
	}

	result, err := New(WithExtractor(extract.NewSyntaxExtractor())).Order(units)
	require.NoError(t, err)
	assert.Equal(t, []string{"Parent.ts", "Child.ts"}, result.Paths)
}
