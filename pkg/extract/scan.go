package extract

import (
	"bytes"
)

// DeclKind tags the outcome of scanning a unit.
type DeclKind int

const (
	NonClass DeclKind = iota
	ClassDecl
)

func (k DeclKind) String() string {
	if k == ClassDecl {
		return "class"
	}
	return "non-class"
}

// Declaration is the tagged result of a scan: either NonClass, or ClassDecl with a
// name and an optional parent.
type Declaration struct {
	Kind   DeclKind
	Name   string
	Parent string
}

// Scan finds the first exported class declaration in src.
//
// The accepted grammar is
//
//	decl      := "export" { WS modifier } WS "class" WS ident [ typeParams ] [ WS "extends" WS qualified ]
//	modifier  := "default" | "abstract" | "declare"
//	qualified := ident { "." ident }
//
// Keywords are matched case-insensitively as whole words. The scan runs over the raw
// text, so declarations inside comments or strings are seen too.
func Scan(src []byte) Declaration {
	s := scanner{src: src}
	for s.pos < len(src) {
		if !s.atWordStart() {
			s.pos++
			continue
		}
		word := s.word()
		if equalFold(word, "export") {
			if decl, ok := s.declAfterExport(); ok {
				return decl
			}
		}
	}
	return Declaration{Kind: NonClass}
}

type scanner struct {
	src []byte
	pos int
}

// atWordStart reports whether an identifier begins at pos.
func (s *scanner) atWordStart() bool {
	if !isIdentByte(s.src[s.pos]) {
		return false
	}
	return s.pos == 0 || !isIdentByte(s.src[s.pos-1])
}

// word consumes an identifier run starting at pos.
func (s *scanner) word() []byte {
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// space consumes whitespace and reports whether any was present.
func (s *scanner) space() bool {
	start := s.pos
	for s.pos < len(s.src) && isSpace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// declAfterExport parses the rest of a declaration after the export keyword.
// On failure pos is left just past "export" so scanning resumes from there.
func (s *scanner) declAfterExport() (Declaration, bool) {
	resume := s.pos
	fail := func() (Declaration, bool) {
		s.pos = resume
		return Declaration{}, false
	}

	var keyword []byte
	for {
		if !s.space() {
			return fail()
		}
		keyword = s.word()
		if !isModifier(keyword) {
			break
		}
	}
	if !equalFold(keyword, "class") || !s.space() {
		return fail()
	}

	name := s.word()
	if len(name) == 0 || isDigit(name[0]) {
		return fail()
	}
	decl := Declaration{Kind: ClassDecl, Name: string(name)}

	s.skipTypeParams()

	mark := s.pos
	if s.space() && equalFold(s.word(), "extends") && s.space() {
		decl.Parent = s.qualified()
	}
	if decl.Parent == "" {
		s.pos = mark
	}
	return decl, true
}

// skipTypeParams skips a balanced <...> group, if one starts at pos. Arrow
// tokens inside the group do not close it.
func (s *scanner) skipTypeParams() {
	save := s.pos
	s.space()
	if s.pos >= len(s.src) || s.src[s.pos] != '<' {
		s.pos = save
		return
	}
	depth := 0
	for ; s.pos < len(s.src); s.pos++ {
		switch s.src[s.pos] {
		case '<':
			depth++
		case '=':
			// "=>" in a function type is one token.
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '>' {
				s.pos++
			}
		case '>':
			depth--
			if depth == 0 {
				s.pos++
				return
			}
		case '{', ';':
			s.pos = save
			return
		}
	}
	s.pos = save
}

// qualified consumes ident { "." ident }.
func (s *scanner) qualified() string {
	start := s.pos
	for {
		w := s.word()
		if len(w) == 0 {
			// Drop a trailing dot.
			if s.pos > start && s.src[s.pos-1] == '.' {
				s.pos--
			}
			break
		}
		if s.pos < len(s.src) && s.src[s.pos] == '.' {
			s.pos++
			continue
		}
		break
	}
	return string(s.src[start:s.pos])
}

var modifiers = [][]byte{[]byte("default"), []byte("abstract"), []byte("declare")}

func isModifier(w []byte) bool {
	for _, m := range modifiers {
		if bytes.EqualFold(w, m) {
			return true
		}
	}
	return false
}

func equalFold(w []byte, keyword string) bool {
	return bytes.EqualFold(w, []byte(keyword))
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
