package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported source language.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
	LangUnknown    Language = "unknown"
)

func (l Language) String() string { return string(l) }

// Parser wraps tree-sitter for the TypeScript family of grammars.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile parses a source file and returns the AST.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	return p.Parse(ctx, source, lang, path)
}

// Parse parses source code with a specified language.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := GetTreeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

// Close releases the parsed tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// GetTreeSitterLanguage returns the tree-sitter language for a Language enum.
func GetTreeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".tsx", ".jsx":
		return LangTSX
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	default:
		return LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes.
// Returning false skips the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST in document order calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}

	if !visitor(node, source) {
		return
	}

	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodes returns all nodes matching a predicate.
func FindNodes(root *sitter.Node, source []byte, predicate func(*sitter.Node) bool) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	return FindNodes(root, source, func(n *sitter.Node) bool {
		return n.Type() == nodeType
	})
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// ClassNode represents a parsed class declaration.
type ClassNode struct {
	Name      string
	Extends   string
	Exported  bool
	StartLine uint32
	EndLine   uint32
}

var classNodeTypes = map[string]bool{
	"class_declaration":          true,
	"abstract_class_declaration": true,
}

// GetClasses extracts class declarations in document order.
func GetClasses(result *ParseResult) []ClassNode {
	var classes []ClassNode
	root := result.Tree.RootNode()

	Walk(root, result.Source, func(node *sitter.Node, source []byte) bool {
		if !classNodeTypes[node.Type()] {
			return true
		}
		classes = append(classes, extractClass(node, source))
		return false // Don't descend into class body here
	})

	return classes
}

// extractClass extracts class details from an AST node.
func extractClass(node *sitter.Node, source []byte) ClassNode {
	cls := ClassNode{
		StartLine: node.StartPoint().Row + 1,
		EndLine:   node.EndPoint().Row + 1,
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		cls.Name = GetNodeText(nameNode, source)
	}

	cls.Exported = isExported(node)

	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		if child.Type() == "class_heritage" {
			cls.Extends = extractHeritage(child, source)
			break
		}
	}

	return cls
}

// isExported reports whether a class declaration is exported, directly or as
// "export declare class".
func isExported(node *sitter.Node) bool {
	parent := node.Parent()
	if parent != nil && parent.Type() == "ambient_declaration" {
		parent = parent.Parent()
	}
	return parent != nil && parent.Type() == "export_statement"
}

// extractHeritage returns the extended class name from a class_heritage node.
// TypeScript wraps the parent in an extends_clause; JavaScript places the
// expression directly under class_heritage. Only plain and dotted identifiers
// count; call expressions such as mixins are ignored.
func extractHeritage(heritage *sitter.Node, source []byte) string {
	var value *sitter.Node
	for i := range int(heritage.NamedChildCount()) {
		child := heritage.NamedChild(i)
		if child.Type() == "extends_clause" {
			value = child.ChildByFieldName("value")
			if value == nil && child.NamedChildCount() > 0 {
				value = child.NamedChild(0)
			}
			break
		}
	}
	if value == nil && heritage.NamedChildCount() > 0 {
		if first := heritage.NamedChild(0); first.Type() != "implements_clause" && first.Type() != "extends_clause" {
			value = first
		}
	}
	if value == nil {
		return ""
	}

	switch value.Type() {
	case "identifier", "type_identifier", "member_expression", "nested_identifier":
		return GetNodeText(value, source)
	default:
		return ""
	}
}
