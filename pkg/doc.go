// Package pkg provides the libraries behind amlfed, a consistency checker for
// federations of separately authored engineering documents.
//
// # Overview
//
// A federation is a set of documents that reference each other to reuse
// class libraries (interface, role and system-unit classes) and element
// instances identified by 128-bit unique identifiers. References must never
// form a cycle, and within the scope of any document every library name and
// identifier must be declared at most once. The pkg directory is organized
// into these areas:
//
//  1. [federation] - Reference graph, scope cache, cycle and collision checks
//  2. [workspace] - Document contents (libraries, elements, pointers) kept in
//     step with the graph
//  3. [manifest] - TOML/JSON federation manifests and workspace building
//  4. [io] and [render] - JSON reports and Graphviz diagrams
//  5. [errors] and [observability] - Error codes and instrumentation hooks
//
// # Architecture
//
// The typical data flow through amlfed:
//
//	federation.toml
//	      ↓
//	 [manifest] package (decode + validate)
//	      ↓
//	 [workspace] package (open documents, declare libraries, add references)
//	      ↓
//	 [federation] package (reject cycles and collisions, cache scopes)
//	      ↓
//	 DOT/SVG/JSON output
//
// # Quick Start
//
// Build a federation and query a scope:
//
//	import (
//	    "github.com/matzehuels/amlfed/pkg/federation"
//	    "github.com/matzehuels/amlfed/pkg/workspace"
//	)
//
//	ws := workspace.New(workspace.Options{})
//	base, _ := ws.Open("base.aml")
//	plant, _ := ws.Open("plant.aml")
//	_ = ws.AddLibrary(base, federation.KindRoleLibrary, "BaseRoles")
//
//	if err := ws.AddReference(plant, base); err != nil {
//	    // cycle or collision; the federation is unchanged
//	}
//	owner, ok, _ := ws.Resolve(plant, federation.KindRoleLibrary, "BaseRoles")
//
// # Error Handling
//
// The engine returns sentinel errors and the structured [*federation.CycleError]
// and [*federation.CollisionError]. [errors.FromModel] attaches a
// machine-readable code while keeping both reachable through errors.As.
//
// [federation]: github.com/matzehuels/amlfed/pkg/federation
// [workspace]: github.com/matzehuels/amlfed/pkg/workspace
// [manifest]: github.com/matzehuels/amlfed/pkg/manifest
// [io]: github.com/matzehuels/amlfed/pkg/io
// [render]: github.com/matzehuels/amlfed/pkg/render
// [errors]: github.com/matzehuels/amlfed/pkg/errors
// [errors.FromModel]: github.com/matzehuels/amlfed/pkg/errors.FromModel
// [observability]: github.com/matzehuels/amlfed/pkg/observability
package pkg
