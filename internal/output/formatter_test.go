package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/panbanda/tsorder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "order.json")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	require.NoError(t, err)
	assert.False(t, f.Colored(), "file output is never colored")
	assert.Equal(t, FormatJSON, f.Format())

	require.NoError(t, f.Output(map[string]int{"units": 3}))
	require.NoError(t, f.Close())

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"units": 3}`, string(content))
}

func TestNewFormatterInvalidPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/dir/out.txt", false)
	assert.Error(t, err)
}

func TestFormatterCloseStdout(t *testing.T) {
	f, err := NewFormatter(FormatText, "", false)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
}

func TestTableRenderText(t *testing.T) {
	table := NewTable("Units", []string{"Path", "Class"}, [][]string{
		{"src/Shape.ts", "Shape"},
		{"src/Circle.ts", "Circle"},
	}, []string{"2 units", ""}, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderText(&buf, false))
	out := buf.String()

	assert.Contains(t, out, "Units\n=====")
	assert.Contains(t, out, "src/Shape.ts")
	assert.Contains(t, out, "Circle")
	assert.Contains(t, out, "2 units")
	assert.Less(t, strings.Index(out, "src/Shape.ts"), strings.Index(out, "src/Circle.ts"))
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Units", []string{"Path", "Class"}, [][]string{
		{"src/Shape.ts", "Shape"},
		{"odd|name.ts", "-"},
	}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderMarkdown(&buf))

	want := "## Units\n\n" +
		"| Path | Class |\n" +
		"| --- | --- |\n" +
		"| src/Shape.ts | Shape |\n" +
		"| odd\\|name.ts | - |\n\n"
	assert.Equal(t, want, buf.String())
}

func TestTableRenderData(t *testing.T) {
	withData := NewTable("", []string{"A"}, [][]string{{"1"}}, nil, []int{1, 2})
	assert.Equal(t, []int{1, 2}, withData.RenderData())

	fromRows := NewTable("", []string{"Path", "Class"}, [][]string{{"a.ts", "A"}, {"b.ts"}}, nil, nil)
	assert.Equal(t, []map[string]string{
		{"Path": "a.ts", "Class": "A"},
		{"Path": "b.ts"},
	}, fromRows.RenderData())
}

func TestSectionRender(t *testing.T) {
	s := &Section{Title: "Cycles", Lines: []string{"A -> B -> A"}}

	var text bytes.Buffer
	require.NoError(t, s.RenderText(&text, false))
	assert.Equal(t, "Cycles\n------\n  A -> B -> A\n", text.String())

	var md bytes.Buffer
	require.NoError(t, s.RenderMarkdown(&md))
	assert.Equal(t, "### Cycles\n\n- A -> B -> A\n\n", md.String())

	assert.Same(t, s, s.RenderData())
	s.Data = "custom"
	assert.Equal(t, "custom", s.RenderData())
}

func TestReportRender(t *testing.T) {
	r := &Report{
		Title: "Check",
		Sections: []Renderable{
			&Section{Title: "One", Lines: []string{"first"}},
			&Section{Title: "Two", Lines: []string{"second"}},
		},
	}

	var text bytes.Buffer
	require.NoError(t, r.RenderText(&text, false))
	out := text.String()
	assert.True(t, strings.HasPrefix(out, "Check\n=====\n\n"))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))

	var md bytes.Buffer
	require.NoError(t, r.RenderMarkdown(&md))
	assert.True(t, strings.HasPrefix(md.String(), "# Check\n\n### One\n"))

	data, ok := r.RenderData().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Check", data["title"])
	assert.Len(t, data["sections"], 2)
}

func TestRenderTextColored(t *testing.T) {
	r := &Report{
		Title:    "Colored",
		Sections: []Renderable{&Section{Title: "S", Lines: []string{"line"}, Severity: "error"}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, true))
	assert.Contains(t, buf.String(), "line")
}

func sampleOrder() *models.OrderResult {
	return &models.OrderResult{
		Paths:    []string{"util.ts", "Shape.ts", "Circle.ts"},
		NonClass: []string{"util.ts"},
		Classes: []models.ClassDescriptor{
			{Path: "Shape.ts", IsClass: true, ClassName: "Shape", ReferenceWeight: 1, DerivedBy: []string{"Circle"}},
			{Path: "Circle.ts", IsClass: true, ClassName: "Circle", ParentName: "Shape"},
		},
		Warnings: []models.Warning{
			{Kind: models.WarnDuplicateClass, Path: "Other.ts", ClassName: "Shape", Message: "class Shape also declared in Shape.ts"},
		},
	}
}

func TestFormatterOutputFormats(t *testing.T) {
	result := sampleOrder()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewWriterFormatter(FormatJSON, &buf, &bytes.Buffer{}, false)
		require.NoError(t, f.Output(OrderView(result)))

		var decoded models.OrderResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, result.Paths, decoded.Paths)
		assert.Equal(t, "Shape", decoded.Classes[0].ClassName)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewWriterFormatter(FormatYAML, &buf, &bytes.Buffer{}, false)
		require.NoError(t, f.Output(OrderView(result)))

		var decoded models.OrderResult
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, result.Paths, decoded.Paths)
		assert.Equal(t, "Shape", decoded.Classes[1].ParentName)
	})

	t.Run("toon", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewWriterFormatter(FormatTOON, &buf, &bytes.Buffer{}, false)
		require.NoError(t, f.Output(OrderView(result)))
		assert.Contains(t, buf.String(), "paths")
		assert.Contains(t, buf.String(), "Circle.ts")
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewWriterFormatter(FormatMarkdown, &buf, &bytes.Buffer{}, false)
		require.NoError(t, f.Output(OrderView(result)))
		out := buf.String()
		assert.Contains(t, out, "## Source Order")
		assert.Contains(t, out, "| 1 | util.ts | - | - | - |")
		assert.Contains(t, out, "| 2 | Shape.ts | Shape | - | 1 |")
		assert.Contains(t, out, "| 3 | Circle.ts | Circle | Shape | 0 |")
		assert.Contains(t, out, "### Warnings")
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		f := NewWriterFormatter(FormatText, &buf, &bytes.Buffer{}, false)
		require.NoError(t, f.Output(OrderView(result)))
		out := buf.String()
		assert.Contains(t, out, "Source Order")
		assert.Contains(t, out, "[duplicate_class] Other.ts")
	})
}

func TestFormatterOutputRaw(t *testing.T) {
	var buf bytes.Buffer
	f := NewWriterFormatter(FormatMarkdown, &buf, &bytes.Buffer{}, false)
	require.NoError(t, f.Output(map[string]string{"k": "v"}))
	assert.True(t, strings.HasPrefix(buf.String(), "```json\n"))
	assert.True(t, strings.HasSuffix(buf.String(), "```\n"))

	buf.Reset()
	f = NewWriterFormatter(FormatText, &buf, &bytes.Buffer{}, false)
	require.NoError(t, f.Output([]string{"a.ts"}))
	assert.JSONEq(t, `["a.ts"]`, buf.String())
}

func TestFormatterMessages(t *testing.T) {
	var out, diag bytes.Buffer
	f := NewWriterFormatter(FormatJSON, &out, &diag, false)

	f.Success("built %s", "script.js")
	f.Info("ordering %d units", 3)
	f.Warning("dangling parent %s", "Base")
	f.Error("cycle %s", "A -> B -> A")

	assert.Empty(t, out.String(), "messages must not mix into structured output")
	assert.Equal(t,
		"built script.js\nordering 3 units\nWARNING: dangling parent Base\nERROR: cycle A -> B -> A\n",
		diag.String())
}

func TestSeverityColor(t *testing.T) {
	for _, sev := range []string{"error", "cycle", "warning", "ok", "", "other"} {
		assert.Contains(t, SeverityColor(sev, "msg"), "msg")
	}
	assert.Equal(t, "msg", SeverityColor("", "msg"))
}

func TestCheckView(t *testing.T) {
	report := &models.InheritanceReport{
		Edges:  []models.InheritanceEdge{{Child: "A", Parent: "B"}, {Child: "B", Parent: "A"}},
		Cycles: [][]string{{"A", "B", "A"}},
		Misorderings: []models.Misordering{
			{Class: "Circle", ClassPath: "Circle.ts", Ancestor: "Shape", AncestorPath: "Shape.ts", ClassIndex: 0, AncestorIndex: 1},
		},
		Summary: models.InheritanceSummary{TotalUnits: 4, Classes: 4, Edges: 2, Cycles: 1, Misorderings: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, CheckView(report).RenderMarkdown(&buf))
	out := buf.String()
	assert.Contains(t, out, "| Cycles | 1 |")
	assert.Contains(t, out, "- A -> B -> A")
	assert.Contains(t, out, "Circle (#1, Circle.ts) precedes ancestor Shape (#2, Shape.ts)")
	assert.NotContains(t, out, "no inheritance cycles")

	assert.Same(t, report, CheckView(report).RenderData())

	healthy := &models.InheritanceReport{Summary: models.InheritanceSummary{TotalUnits: 1}}
	buf.Reset()
	require.NoError(t, CheckView(healthy).RenderText(&buf, false))
	assert.Contains(t, buf.String(), "no inheritance cycles")
}
