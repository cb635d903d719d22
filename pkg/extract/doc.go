// Package extract turns the text of a source unit into a class descriptor.
//
// Two strategies exist. The scan strategy walks the raw text looking for the first
// "export class Name [extends Parent]" declaration and never fails. The syntax
// strategy parses the unit with tree-sitter and reads the first exported class
// declaration from the tree, falling back to the scan when the unit cannot be parsed.
//
// Both agree on well-formed declarations. They differ where the scan sees raw text
// the parser does not treat as code: declarations inside comments or string
// literals are found only by the scan.
package extract
