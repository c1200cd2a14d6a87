// Package federation tracks references between separately authored
// engineering documents and keeps their shared namespaces collision-free.
//
// # Overview
//
// Documents in a federation reference each other's class libraries and
// instances. This package owns the reference graph between them and a
// derived, lazily rebuilt scope per document. A scope answers two questions
// for its root document: which documents are visible (the forward set of
// documents reachable from the root and the backward set of documents that
// reach it), and which document declares a given interface-class,
// role-class or system-unit-class library name or unique identifier.
//
// # Basic Usage
//
// Create a graph with [New], passing the [Content] that reports what each
// document declares. Register documents with [Graph.Register] and connect
// them with [Graph.AddExplicitReference]:
//
//	g := federation.New(content)
//	plant, _ := g.Register("plant.aml")
//	base, _ := g.Register("base.aml")
//	if err := g.AddExplicitReference(plant, base); err != nil {
//	    // errors.Is(err, federation.ErrCycleDetected) or
//	    // errors.Is(err, federation.ErrNamespaceCollision)
//	}
//
// Content-level pointers (base-class references, link endpoints) are
// reported with [Graph.AddImplicitReference] and [Graph.RemoveImplicitReference].
// They are reference counted; the direct edge exists while the count is
// positive or an explicit reference covers the same pair.
//
// # Edges
//
// The graph is acyclic at all times. Every new direct edge is validated
// before anything changes: the live graph is walked to prove the edge closes
// no cycle, and every scope whose membership would grow is checked for a key
// that would end up owned by two different documents. A key shared because
// both sides already see the same document is not a collision. A rejected
// edge leaves the graph and all scopes exactly as they were.
//
// # Scopes
//
// Each scope is either valid or invalid. Invalid scopes are rebuilt from the
// live graph and from [Content] on their next read. Adding an edge patches
// the two endpoint scopes in place and invalidates the other scopes that see
// an endpoint; removing an edge invalidates every scope containing the
// referrer. Content changes ([Graph.AddName], [Graph.AddID] and their Remove
// counterparts) patch valid scopes directly and never force a re-walk.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Queries rebuild cached
// scopes, so even read-only calls must be serialized with mutations.
package federation
