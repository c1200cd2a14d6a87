package federation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnknownDocument is returned when a [DocID] does not refer to a
	// registered document. Handles are never reused, so a handle that was
	// valid before [Graph.Unregister] stays unknown afterwards.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrInvalidLocation is returned by [Graph.Register] for an empty location.
	ErrInvalidLocation = errors.New("document location must not be empty")

	// ErrLocationAlreadyRegistered is returned by [Graph.Register] when the
	// location is already bound to a document.
	ErrLocationAlreadyRegistered = errors.New("location already registered")

	// ErrReferencedDocumentStillInUse is returned by [Graph.Unregister] while
	// any explicit or implicit edge touches the document.
	ErrReferencedDocumentStillInUse = errors.New("referenced document still in use")

	// ErrSelfReference is returned by [Graph.AddExplicitReference] when the
	// referrer and the referenced document are the same.
	ErrSelfReference = errors.New("document cannot reference itself")

	// ErrUnknownReference is returned when removing an explicit or implicit
	// reference that does not exist.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrInvalidKind is returned when a namespace operation receives a kind it
	// does not accept (for example [KindIdentifier] for a library name).
	ErrInvalidKind = errors.New("invalid namespace kind")

	// ErrCycleDetected matches every [*CycleError] via errors.Is.
	ErrCycleDetected = errors.New("would create a circular document dependency")

	// ErrNamespaceCollision matches every library-name [*CollisionError].
	ErrNamespaceCollision = errors.New("library name collision")

	// ErrIdentifierCollision matches every unique-identifier [*CollisionError].
	ErrIdentifierCollision = errors.New("unique identifier collision")
)

// CycleError reports a reference path that would close, or already closes,
// a cycle. The first and last entries of Path are the same document.
type CycleError struct {
	Path      []DocID
	Locations []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Locations) == 0 {
		return ErrCycleDetected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(e.Locations, " -> "))
}

// Is reports whether target is [ErrCycleDetected].
func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// CollisionError reports a key that two different documents declare inside a
// single scope. For library kinds Name is set; for [KindIdentifier] ID is set.
type CollisionError struct {
	Kind  Kind
	Name  string
	ID    uuid.UUID
	Owner DocID // document already holding the key
	Other DocID // document that would introduce the duplicate

	OwnerLocation string
	OtherLocation string
}

// Key returns the colliding name or the string form of the colliding identifier.
func (e *CollisionError) Key() string {
	if e.Kind == KindIdentifier {
		return e.ID.String()
	}
	return e.Name
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	base := ErrNamespaceCollision
	if e.Kind == KindIdentifier {
		base = ErrIdentifierCollision
	}
	return fmt.Sprintf("%s: %s %q declared by %s and %s", base, e.Kind, e.Key(), e.OwnerLocation, e.OtherLocation)
}

// Is matches [ErrIdentifierCollision] for identifiers and
// [ErrNamespaceCollision] for every library kind.
func (e *CollisionError) Is(target error) bool {
	if e.Kind == KindIdentifier {
		return target == ErrIdentifierCollision
	}
	return target == ErrNamespaceCollision
}
