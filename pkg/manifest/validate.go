package manifest

import (
	"github.com/google/uuid"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
)

// Validate checks the manifest for problems that do not need the federation
// engine: malformed names and identifiers, duplicate locations, references
// to unknown documents and malformed pointers. Cycles and collisions are
// reported by [Build].
func (m *Manifest) Validate() error {
	if len(m.Documents) == 0 {
		return errs.New(errs.ErrCodeInvalidManifest, "manifest declares no documents")
	}

	locations := make(map[string]bool, len(m.Documents))
	for i, d := range m.Documents {
		if err := errs.ValidateLocation(d.Location); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidManifest, err, "document %d", i+1)
		}
		if locations[d.Location] {
			return errs.New(errs.ErrCodeInvalidManifest, "document %q declared twice", d.Location)
		}
		locations[d.Location] = true
	}

	for _, d := range m.Documents {
		if err := d.validate(locations); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidManifest, err, "document %q", d.Location)
		}
	}
	return nil
}

func (d Document) validate(locations map[string]bool) error {
	for _, kind := range federation.LibraryKinds {
		names := d.libraries()[kind]
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if err := errs.ValidateLibraryName(name); err != nil {
				return err
			}
			if seen[name] {
				return errs.New(errs.ErrCodeInvalidName, "%s %q declared twice", kind, name)
			}
			seen[name] = true
		}
	}

	seen := make(map[string]bool, len(d.References))
	for _, ref := range d.References {
		switch {
		case ref == d.Location:
			return errs.New(errs.ErrCodeSelfReference, "document references itself")
		case !locations[ref]:
			return errs.New(errs.ErrCodeDocumentNotFound, "reference to unknown document %q", ref)
		case seen[ref]:
			return errs.New(errs.ErrCodeInvalidManifest, "reference %q listed twice", ref)
		}
		seen[ref] = true
	}

	if err := validateElements(d.Elements); err != nil {
		return err
	}

	for i, p := range d.Pointers {
		if err := p.validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidManifest, err, "pointer %d", i+1)
		}
	}
	return nil
}

func validateElements(elements []Element) error {
	for _, e := range elements {
		if e.Name == "" {
			return errs.New(errs.ErrCodeInvalidName, "element without name")
		}
		if e.ID != "" {
			if _, err := uuid.Parse(e.ID); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidInput, err, "element %q has malformed id %q", e.Name, e.ID)
			}
		}
		if err := validateElements(e.Elements); err != nil {
			return err
		}
	}
	return nil
}

func (p Pointer) validate() error {
	switch {
	case p.Element != "" && (p.Kind != "" || p.Library != ""):
		return errs.New(errs.ErrCodeInvalidInput, "pointer must target either a library or an element")
	case p.Element != "":
		if _, err := uuid.Parse(p.Element); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed element id %q", p.Element)
		}
	case p.Library == "":
		return errs.New(errs.ErrCodeInvalidInput, "pointer needs kind and library, or element")
	default:
		if _, err := federation.ParseKind(p.Kind); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidKind, err, "pointer to %q", p.Library)
		}
	}
	return nil
}

// libraries groups the declared library names by kind.
func (d Document) libraries() map[federation.Kind][]string {
	return map[federation.Kind][]string{
		federation.KindInterfaceLibrary:  d.InterfaceLibraries,
		federation.KindRoleLibrary:       d.RoleLibraries,
		federation.KindSystemUnitLibrary: d.SystemUnitLibraries,
	}
}
