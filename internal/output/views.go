package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/panbanda/tsorder/pkg/models"
)

// OrderView renders an ordering as a table of units followed by any warnings.
func OrderView(result *models.OrderResult) Renderable {
	rows := make([][]string, 0, len(result.Paths))
	i := 1
	for _, p := range result.NonClass {
		rows = append(rows, []string{strconv.Itoa(i), p, "-", "-", "-"})
		i++
	}
	for _, d := range result.Classes {
		parent := d.ParentName
		if parent == "" {
			parent = "-"
		}
		rows = append(rows, []string{strconv.Itoa(i), d.Path, d.ClassName, parent, strconv.Itoa(d.ReferenceWeight)})
		i++
	}

	table := NewTable(
		"Source Order",
		[]string{"#", "Path", "Class", "Parent", "Weight"},
		rows,
		[]string{"", fmt.Sprintf("%d units", len(result.Paths)), fmt.Sprintf("%d classes", len(result.Classes)), "", ""},
		nil,
	)

	report := &Report{Sections: []Renderable{table}, Data: result}
	if result.HasWarnings() {
		report.Sections = append(report.Sections, warningSection(result.Warnings))
	}
	return report
}

// CheckView renders an inheritance report: summary, cycles, misorderings, and warnings.
func CheckView(r *models.InheritanceReport) Renderable {
	s := r.Summary
	summary := NewTable(
		"Inheritance Check",
		[]string{"Metric", "Value"},
		[][]string{
			{"Units", strconv.Itoa(s.TotalUnits)},
			{"Classes", strconv.Itoa(s.Classes)},
			{"Edges", strconv.Itoa(s.Edges)},
			{"Roots", strconv.Itoa(s.Roots)},
			{"Max depth", strconv.Itoa(s.MaxDepth)},
			{"Cycles", strconv.Itoa(s.Cycles)},
			{"Dangling parents", strconv.Itoa(s.Dangling)},
			{"Duplicate classes", strconv.Itoa(s.Duplicates)},
			{"Misorderings", strconv.Itoa(s.Misorderings)},
		},
		nil,
		nil,
	)

	report := &Report{Sections: []Renderable{summary}, Data: r}

	if len(r.Cycles) > 0 {
		lines := make([]string, len(r.Cycles))
		for i, c := range r.Cycles {
			lines[i] = strings.Join(c, " -> ")
		}
		report.Sections = append(report.Sections, &Section{Title: "Cycles", Lines: lines, Severity: "error"})
	}

	if len(r.Misorderings) > 0 {
		lines := make([]string, len(r.Misorderings))
		for i, m := range r.Misorderings {
			lines[i] = fmt.Sprintf("%s (#%d, %s) precedes ancestor %s (#%d, %s)",
				m.Class, m.ClassIndex+1, m.ClassPath, m.Ancestor, m.AncestorIndex+1, m.AncestorPath)
		}
		report.Sections = append(report.Sections, &Section{Title: "Misorderings", Lines: lines, Severity: "warning"})
	}

	if len(r.Warnings) > 0 {
		report.Sections = append(report.Sections, warningSection(r.Warnings))
	}

	if r.Healthy() {
		report.Sections = append(report.Sections, &Section{Lines: []string{"no inheritance cycles"}, Severity: "ok"})
	}
	return report
}

func warningSection(warnings []models.Warning) *Section {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = fmt.Sprintf("[%s] %s: %s", w.Kind, w.Path, w.Message)
	}
	return &Section{Title: "Warnings", Lines: lines, Severity: "warning"}
}
