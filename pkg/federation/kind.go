package federation

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind selects one of the partitioned namespaces tracked by a scope.
type Kind uint8

const (
	// KindInterfaceLibrary is the namespace of interface-class library names.
	KindInterfaceLibrary Kind = iota
	// KindRoleLibrary is the namespace of role-class library names.
	KindRoleLibrary
	// KindSystemUnitLibrary is the namespace of system-unit-class library names.
	KindSystemUnitLibrary
	// KindIdentifier is the namespace of 128-bit unique element identifiers.
	KindIdentifier
)

// LibraryKinds lists the three library-name namespaces in declaration order.
var LibraryKinds = []Kind{KindInterfaceLibrary, KindRoleLibrary, KindSystemUnitLibrary}

var kindNames = map[Kind]string{
	KindInterfaceLibrary:  "interface library",
	KindRoleLibrary:       "role library",
	KindSystemUnitLibrary: "system unit library",
	KindIdentifier:        "unique identifier",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsLibrary reports whether k is one of the library-name namespaces.
func (k Kind) IsLibrary() bool { return k <= KindSystemUnitLibrary }

// ParseKind parses the short names used in manifests and on the command line:
// "interface", "role" and "systemunit" (also "system-unit", "system_unit").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interface", "ic":
		return KindInterfaceLibrary, nil
	case "role", "rc":
		return KindRoleLibrary, nil
	case "systemunit", "system-unit", "system_unit", "suc":
		return KindSystemUnitLibrary, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// key addresses one entry of a scope index. Library names use name, identifiers
// use id; the other field stays zero.
type key struct {
	kind Kind
	name string
	id   uuid.UUID
}

func nameKey(kind Kind, name string) (key, error) {
	if !kind.IsLibrary() {
		return key{}, fmt.Errorf("%w: %s is not a library kind", ErrInvalidKind, kind)
	}
	return key{kind: kind, name: name}, nil
}

func idKey(id uuid.UUID) key { return key{kind: KindIdentifier, id: id} }

func compareKeys(a, b key) int {
	if c := cmp.Compare(a.kind, b.kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.name, b.name); c != 0 {
		return c
	}
	return bytes.Compare(a.id[:], b.id[:])
}
