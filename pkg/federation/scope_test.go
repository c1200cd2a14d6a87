package federation

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestSafeUnion(t *testing.T) {
	f := newFixture(t)
	ids := f.register("d1.aml", "d2.aml")
	d1, d2 := ids[0], ids[1]
	f.content.declare(d1, KindInterfaceLibrary, "L1")
	f.content.declare(d1, KindRoleLibrary, "R1")
	f.content.declare(d2, KindInterfaceLibrary, "L2")
	f.content.declare(d2, KindSystemUnitLibrary, "S2")

	f.link(d1, d2)

	for _, tt := range []struct {
		kind Kind
		name string
	}{
		{KindInterfaceLibrary, "L1"},
		{KindRoleLibrary, "R1"},
		{KindInterfaceLibrary, "L2"},
		{KindSystemUnitLibrary, "S2"},
	} {
		if !f.defined(d1, tt.kind, tt.name) {
			t.Errorf("scope(d1) missing %s %q", tt.kind, tt.name)
		}
		// The backward side of d2 is repaired by the merge itself.
		if !f.defined(d2, tt.kind, tt.name) {
			t.Errorf("scope(d2) missing %s %q right after merge", tt.kind, tt.name)
		}
	}
	if f.defined(d1, KindRoleLibrary, "L1") {
		t.Error("names must be partitioned by kind")
	}
	if s := f.g.Stats(); s.ValidScopes != 2 {
		t.Errorf("ValidScopes = %d, want 2 (endpoints are patched, not invalidated)", s.ValidScopes)
	}
}

func TestNamespaceCollision(t *testing.T) {
	f := newFixture(t)
	ids := f.register("d1.aml", "d2.aml")
	d1, d2 := ids[0], ids[1]
	f.content.declare(d1, KindInterfaceLibrary, "L1")
	f.content.declare(d2, KindInterfaceLibrary, "L1")

	err := f.g.AddExplicitReference(d1, d2)
	if !errors.Is(err, ErrNamespaceCollision) {
		t.Fatalf("error = %v, want ErrNamespaceCollision", err)
	}
	if errors.Is(err, ErrIdentifierCollision) {
		t.Error("library collision must not match ErrIdentifierCollision")
	}
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("error %T is not a *CollisionError", err)
	}
	if ce.Kind != KindInterfaceLibrary || ce.Name != "L1" || ce.Owner != d1 || ce.Other != d2 {
		t.Errorf("CollisionError = %+v", ce)
	}

	if v := f.scope(d1); len(v.Forward) != 0 || len(v.Backward) != 0 {
		t.Errorf("scope(d1) grew: forward %v backward %v", v.Forward, v.Backward)
	}
	if v := f.scope(d2); len(v.Forward) != 0 || len(v.Backward) != 0 {
		t.Errorf("scope(d2) grew: forward %v backward %v", v.Forward, v.Backward)
	}
	if f.g.HasEdge(d1, d2) || len(f.g.ExplicitReferences(d1)) != 0 {
		t.Error("rejected reference must leave the graph unchanged")
	}
}

func TestIdentifierCollision(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml")
	a, b := ids[0], ids[1]
	shared := uuid.MustParse("6b1e5c3a-57a4-4f0e-9a38-4e7d7a0c2b11")
	f.content.declareID(a, shared)
	f.content.declareID(b, shared)

	err := f.g.AddImplicitReference(a, b)
	if !errors.Is(err, ErrIdentifierCollision) {
		t.Fatalf("error = %v, want ErrIdentifierCollision", err)
	}
	var ce *CollisionError
	if errors.As(err, &ce) && ce.Key() != shared.String() {
		t.Errorf("Key() = %q, want %q", ce.Key(), shared)
	}
	if n := f.g.ImplicitCount(a, b); n != 0 {
		t.Errorf("ImplicitCount = %d, want 0", n)
	}
}

func TestIdempotentReShare(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml", "common.aml")
	a, b, common := ids[0], ids[1], ids[2]
	f.content.declare(common, KindRoleLibrary, "BaseRoles")
	id := uuid.New()
	f.content.declareID(common, id)

	f.link(a, common)
	f.link(b, common)

	// Both scopes already see BaseRoles owned by common: not a collision.
	if err := f.g.AddExplicitReference(a, b); err != nil {
		t.Fatalf("AddExplicitReference(a, b) error: %v", err)
	}
	owner, ok, err := f.g.Resolve(a, KindRoleLibrary, "BaseRoles")
	if err != nil || !ok || owner != common {
		t.Errorf("Resolve() = %d, %v, %v, want %d", owner, ok, err, common)
	}
	owner, ok, err = f.g.ResolveID(b, id)
	if err != nil || !ok || owner != common {
		t.Errorf("ResolveID() = %d, %v, %v, want %d", owner, ok, err, common)
	}
}

func TestRenameScenario(t *testing.T) {
	f := newFixture(t)
	ids := f.register("d1.aml", "d2.aml")
	d1, d2 := ids[0], ids[1]
	f.content.declare(d1, KindInterfaceLibrary, "L1")
	f.content.declare(d2, KindInterfaceLibrary, "L1")

	if err := f.g.AddExplicitReference(d1, d2); !errors.Is(err, ErrNamespaceCollision) {
		t.Fatalf("first attempt error = %v, want ErrNamespaceCollision", err)
	}

	// Rename d2's library: commit the content change, then patch the scopes.
	f.content.undeclare(d2, KindInterfaceLibrary, "L1")
	f.content.declare(d2, KindInterfaceLibrary, "L2")
	if err := f.g.RemoveName(d2, KindInterfaceLibrary, "L1"); err != nil {
		t.Fatalf("RemoveName error: %v", err)
	}
	if err := f.g.AddName(d2, KindInterfaceLibrary, "L2"); err != nil {
		t.Fatalf("AddName error: %v", err)
	}

	if err := f.g.AddExplicitReference(d1, d2); err != nil {
		t.Fatalf("second attempt error: %v", err)
	}
	if !f.defined(d1, KindInterfaceLibrary, "L2") {
		t.Error("IsNameDefined(scope(d1), interface, L2) = false, want true")
	}
}

func TestCollisionInSiblingScope(t *testing.T) {
	// y references both z and a. z and b both declare L. Adding a→b would make
	// L ambiguous in scope(y) although scope(a) and scope(b) never meet z.
	f := newFixture(t)
	ids := f.register("y.aml", "z.aml", "a.aml", "b.aml")
	y, z, a, b := ids[0], ids[1], ids[2], ids[3]
	f.content.declare(z, KindSystemUnitLibrary, "L")
	f.content.declare(b, KindSystemUnitLibrary, "L")
	f.link(y, z)
	f.link(y, a)

	err := f.g.AddExplicitReference(a, b)
	if !errors.Is(err, ErrNamespaceCollision) {
		t.Fatalf("error = %v, want ErrNamespaceCollision", err)
	}
	var ce *CollisionError
	if errors.As(err, &ce) && (ce.Owner != z || ce.Other != b) {
		t.Errorf("collision owners = %d, %d, want %d, %d", ce.Owner, ce.Other, z, b)
	}
	if f.g.HasEdge(a, b) {
		t.Error("rejected edge must not be recorded")
	}
}

func TestCollisionInDownstreamScope(t *testing.T) {
	// x already references b. Both x and a declare L. Adding a→b puts both
	// into scope(b)'s backward set.
	f := newFixture(t)
	ids := f.register("x.aml", "a.aml", "b.aml")
	x, a, b := ids[0], ids[1], ids[2]
	f.content.declare(x, KindInterfaceLibrary, "L")
	f.content.declare(a, KindInterfaceLibrary, "L")
	f.link(x, b)

	if err := f.g.AddExplicitReference(a, b); !errors.Is(err, ErrNamespaceCollision) {
		t.Fatalf("error = %v, want ErrNamespaceCollision", err)
	}
	if v := f.scope(b); !slices.Equal(v.Backward, []DocID{x}) {
		t.Errorf("scope(b).Backward = %v, want [%d]", v.Backward, x)
	}
}

func TestResolveBackwardSide(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml")
	a, b := ids[0], ids[1]
	f.content.declare(a, KindRoleLibrary, "UpstreamRoles")
	f.link(a, b)

	owner, ok, err := f.g.Resolve(b, KindRoleLibrary, "UpstreamRoles")
	if err != nil || !ok || owner != a {
		t.Errorf("Resolve() = %d, %v, %v, want %d, true", owner, ok, err, a)
	}
	if _, ok, _ := f.g.Resolve(b, KindRoleLibrary, "Missing"); ok {
		t.Error("Resolve(Missing) should not be found")
	}
	if _, _, err := f.g.Resolve(b, KindIdentifier, "x"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Resolve(KindIdentifier) error = %v, want ErrInvalidKind", err)
	}

	v := f.scope(b)
	if len(v.Entries) != 1 || !v.Entries[0].Backward || v.Entries[0].Owner != a {
		t.Errorf("scope(b).Entries = %+v", v.Entries)
	}
	if got := v.Names(KindRoleLibrary); !slices.Equal(got, []string{"UpstreamRoles"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestAddNamePatchesWithoutRewalk(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml", "c.aml")
	a, b, c := ids[0], ids[1], ids[2]
	f.link(a, b)
	f.link(b, c)
	for _, id := range ids {
		f.scope(id)
	}

	h := installHooks(t)
	f.content.declare(b, KindInterfaceLibrary, "Mid")
	if err := f.g.AddName(b, KindInterfaceLibrary, "Mid"); err != nil {
		t.Fatalf("AddName error: %v", err)
	}
	id := uuid.New()
	f.content.declareID(c, id)
	if err := f.g.AddID(c, id); err != nil {
		t.Fatalf("AddID error: %v", err)
	}

	for _, root := range ids {
		if !f.defined(root, KindInterfaceLibrary, "Mid") {
			t.Errorf("scope(%d) missing Mid", root)
		}
		if ok, _ := f.g.IsIDDefined(root, id); !ok {
			t.Errorf("scope(%d) missing id", root)
		}
	}
	if len(h.revalidated) != 0 {
		t.Errorf("content additions revalidated %v, want none", h.revalidated)
	}

	v := f.scope(a)
	for _, e := range v.Entries {
		if e.Backward {
			t.Errorf("scope(a) entry %+v should be forward-side", e)
		}
	}
	if v := f.scope(c); len(v.Entries) != 2 || !v.Entries[0].Backward {
		t.Errorf("scope(c).Entries = %+v, want Mid on the backward side", v.Entries)
	}
}

func TestAddNameRejectsCollision(t *testing.T) {
	// x references d and z; z declares L. Declaring L in d would make scope(x)
	// ambiguous even though scope(d) does not contain z.
	f := newFixture(t)
	ids := f.register("x.aml", "d.aml", "z.aml")
	x, d, z := ids[0], ids[1], ids[2]
	f.content.declare(z, KindRoleLibrary, "L")
	f.link(x, d)
	f.link(x, z)

	if ok := f.defined(d, KindRoleLibrary, "L"); ok {
		t.Fatal("scope(d) should not see z")
	}
	if err := f.g.CheckName(d, KindRoleLibrary, "L"); !errors.Is(err, ErrNamespaceCollision) {
		t.Errorf("CheckName error = %v, want ErrNamespaceCollision", err)
	}
	if err := f.g.AddName(d, KindRoleLibrary, "L"); !errors.Is(err, ErrNamespaceCollision) {
		t.Errorf("AddName error = %v, want ErrNamespaceCollision", err)
	}
	owner, _, _ := f.g.Resolve(x, KindRoleLibrary, "L")
	if owner != z {
		t.Errorf("Resolve(x, L) = %d, want %d", owner, z)
	}
	if err := f.g.CheckName(z, KindRoleLibrary, "L"); err != nil {
		t.Errorf("re-declaring an owned name should pass, got %v", err)
	}
	if err := f.g.CheckID(d, uuid.New()); err != nil {
		t.Errorf("CheckID(fresh) error: %v", err)
	}
}

func TestRemoveNameOnlyDropsOwnEntries(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml")
	a, b := ids[0], ids[1]
	f.content.declare(a, KindInterfaceLibrary, "L")
	f.link(b, a)

	if err := f.g.RemoveName(b, KindInterfaceLibrary, "L"); err != nil {
		t.Fatalf("RemoveName error: %v", err)
	}
	if !f.defined(b, KindInterfaceLibrary, "L") {
		t.Error("RemoveName must not drop another document's entry")
	}

	f.content.undeclare(a, KindInterfaceLibrary, "L")
	if err := f.g.RemoveName(a, KindInterfaceLibrary, "L"); err != nil {
		t.Fatalf("RemoveName error: %v", err)
	}
	if f.defined(b, KindInterfaceLibrary, "L") || f.defined(a, KindInterfaceLibrary, "L") {
		t.Error("L should be gone from both scopes")
	}
}

func TestEdgeInvalidatesOtherScopes(t *testing.T) {
	f := newFixture(t)
	ids := f.register("a.aml", "b.aml", "c.aml", "d.aml")
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]
	f.link(a, b)
	f.link(c, d)
	for _, id := range ids {
		f.scope(id)
	}

	h := installHooks(t)
	f.link(b, c)

	slices.Sort(h.invalidated)
	if want := []string{"a.aml", "d.aml"}; !slices.Equal(h.invalidated, want) {
		t.Errorf("invalidated = %v, want %v", h.invalidated, want)
	}
	if h.added != 1 {
		t.Errorf("added = %d, want 1", h.added)
	}

	v := f.scope(a)
	if !slices.Equal(v.Forward, []DocID{b, c, d}) {
		t.Errorf("scope(a).Forward = %v after lazy revalidation", v.Forward)
	}
	v = f.scope(d)
	if !slices.Equal(v.Backward, []DocID{a, b, c}) {
		t.Errorf("scope(d).Backward = %v after lazy revalidation", v.Backward)
	}

	h.invalidated = nil
	if err := f.g.RemoveExplicitReference(b, c); err != nil {
		t.Fatalf("RemoveExplicitReference error: %v", err)
	}
	if h.removed != 1 {
		t.Errorf("removed = %d, want 1", h.removed)
	}
	if v := f.scope(a); !slices.Equal(v.Forward, []DocID{b}) {
		t.Errorf("scope(a).Forward = %v after removal, want [%d]", v.Forward, b)
	}
	if v := f.scope(d); !slices.Equal(v.Backward, []DocID{c}) {
		t.Errorf("scope(d).Backward = %v after removal, want [%d]", v.Backward, c)
	}
}
