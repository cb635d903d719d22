package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeOrder() string {
	return `Computes the order in which TypeScript source files must be passed to the compiler so that each class comes after the classes it extends.

USE WHEN:
- A single-output tsc build fails with "Class used before its declaration" or undefined base classes
- Reviewing how a new subclass changes the build order
- Comparing the order at a git revision with the working tree (pass ref)

INTERPRETING RESULTS:
- paths is the final order: files without an exported class first, then classes
- reference_weight counts the classes that transitively extend a class; heavier classes come first
- Equal weights keep discovery order (lexical path order)
- duplicate_class warnings mean two files export the same class name; the later file wins
- A cyclic inheritance error means no order exists until the cycle is broken

METRICS RETURNED:
- paths: ordered file list
- classes: class_name, parent_name, reference_weight, derived_by per class file
- non_class: files without a class declaration
- warnings: duplicate class names`
}

func describeCheck() string {
	return `Checks the class inheritance graph of a TypeScript source tree without changing the order.

USE WHEN:
- An order call failed with a cyclic inheritance error and you need the cycle
- Auditing for base classes that are not part of the source tree
- Verifying the weighted order never places a class before one of its ancestors

INTERPRETING RESULTS:
- cycles lists each cyclic chain of class names; any cycle blocks ordering
- dangling_parent warnings name classes whose parent is not declared in any scanned file (often a library class, usually harmless)
- misorderings are pairs where a class is emitted before an ancestor; these break single-output builds
- max_depth is the longest inheritance chain among scanned classes

METRICS RETURNED:
- edges: child to parent links between scanned classes
- cycles, warnings, misorderings
- summary: total_units, classes, edges, roots, max_depth, cycles, dangling, duplicates, misorderings`
}

func describeManifest() string {
	return `Renders the reference manifest for a TypeScript source tree: one ///<reference path="..."/> line per file in build order.

USE WHEN:
- Producing the file that is handed to tsc with --out
- Inspecting exactly what a build would compile

INTERPRETING RESULTS:
- Lines appear in the same order as order_sources paths
- Paths are absolute unless relative is set, in which case they are relative to dir with forward slashes

METRICS RETURNED:
- The manifest text`
}
