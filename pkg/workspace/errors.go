package workspace

import "errors"

var (
	// ErrInvalidName is returned for an empty library or element name.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrLibraryExists is returned when a document already declares the library.
	ErrLibraryExists = errors.New("library already declared in document")

	// ErrUnknownLibrary is returned when a document does not declare the library.
	ErrUnknownLibrary = errors.New("unknown library")

	// ErrLibraryInUse is returned by RemoveLibrary while a pointer targets the library.
	ErrLibraryInUse = errors.New("library is the target of a pointer")

	// ErrElementExists is returned when a document already holds an element
	// with the requested identifier.
	ErrElementExists = errors.New("element identifier already used in document")

	// ErrUnknownElement is returned when an element identifier is not found.
	ErrUnknownElement = errors.New("unknown element")

	// ErrElementInUse is returned by RemoveElement while a pointer targets an
	// element of the removed subtree.
	ErrElementInUse = errors.New("element is the target of a pointer")

	// ErrUnresolved is returned when a pointer target is not visible in the
	// pointing document's scope.
	ErrUnresolved = errors.New("pointer target not found in scope")

	// ErrUnknownPointer is returned by Unpoint for a pointer that does not exist.
	ErrUnknownPointer = errors.New("unknown pointer")

	// ErrReferenceRequired is returned by RemoveReference when a surviving
	// pointer would lose its only explicit path to its target.
	ErrReferenceRequired = errors.New("reference is required by a pointer")

	// ErrNotExplicitlyReferenced is returned when a pointer targets a document
	// that is not reachable through explicit references.
	ErrNotExplicitlyReferenced = errors.New("target document is not explicitly referenced")
)
