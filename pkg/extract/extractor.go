package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/panbanda/tsorder/pkg/models"
	"github.com/panbanda/tsorder/pkg/parser"
)

// Mode selects an extraction strategy.
type Mode string

const (
	ModeScan   Mode = "scan"
	ModeSyntax Mode = "syntax"
)

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scan":
		return ModeScan, nil
	case "syntax", "treesitter", "tree-sitter":
		return ModeSyntax, nil
	default:
		return "", fmt.Errorf("unknown extract mode %q (want scan or syntax)", s)
	}
}

// Extractor produces a class descriptor from a unit's path and text.
// Implementations never fail: a unit without a recognizable class is non-class content.
type Extractor interface {
	Extract(path string, src []byte) models.ClassDescriptor
}

// New returns the extractor for a mode.
func New(mode Mode) Extractor {
	if mode == ModeSyntax {
		return NewSyntaxExtractor()
	}
	return ScanExtractor{}
}

// Describe builds a descriptor for path from a declaration.
func Describe(path string, decl Declaration) models.ClassDescriptor {
	if decl.Kind != ClassDecl {
		return models.ClassDescriptor{Path: path}
	}
	return models.ClassDescriptor{
		Path:       path,
		IsClass:    true,
		ClassName:  decl.Name,
		ParentName: decl.Parent,
	}
}

// ScanExtractor extracts with the structural text scan.
type ScanExtractor struct{}

// Extract implements Extractor.
func (ScanExtractor) Extract(path string, src []byte) models.ClassDescriptor {
	return Describe(path, Scan(src))
}

// SyntaxExtractor extracts from a tree-sitter parse of the unit.
// It creates a parser per call, so it is safe for concurrent use.
type SyntaxExtractor struct {
	fallback ScanExtractor
}

// NewSyntaxExtractor creates a tree-sitter backed extractor.
func NewSyntaxExtractor() *SyntaxExtractor {
	return &SyntaxExtractor{}
}

// Extract implements Extractor.
func (e *SyntaxExtractor) Extract(path string, src []byte) models.ClassDescriptor {
	decl, ok := e.declaration(path, src)
	if !ok {
		return e.fallback.Extract(path, src)
	}
	return Describe(path, decl)
}

// declaration returns the first exported class in the tree. ok is false when the
// unit could not be parsed.
func (e *SyntaxExtractor) declaration(path string, src []byte) (Declaration, bool) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		lang = parser.LangTypeScript
	}

	psr := parser.New()
	defer psr.Close()

	result, err := psr.Parse(context.Background(), src, lang, path)
	if err != nil || result.Tree == nil {
		return Declaration{}, false
	}
	defer result.Close()

	for _, cls := range parser.GetClasses(result) {
		if cls.Exported && cls.Name != "" {
			return Declaration{Kind: ClassDecl, Name: cls.Name, Parent: cls.Extends}, true
		}
	}
	return Declaration{Kind: NonClass}, true
}
