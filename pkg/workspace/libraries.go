package workspace

import (
	"fmt"
	"slices"

	"github.com/matzehuels/amlfed/pkg/federation"
)

// AddLibrary declares a library of kind in doc. The name must be unique
// within kind in every scope that contains doc.
func (w *Workspace) AddLibrary(doc federation.DocID, kind federation.Kind, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.library(doc, kind, name)
	if err != nil {
		return err
	}
	if slices.Contains(d.libraries[kind], name) {
		return fmt.Errorf("%w: %s %q", ErrLibraryExists, kind, name)
	}
	if err := w.graph.AddName(doc, kind, name); err != nil {
		return err
	}
	d.libraries[kind] = append(d.libraries[kind], name)
	w.opts.Logger.Debug("library added", "doc", doc, "kind", kind, "name", name)
	return nil
}

// RenameLibrary renames a library in place. Pointers to the library follow
// the rename. A rejected rename keeps the old name.
func (w *Workspace) RenameLibrary(doc federation.DocID, kind federation.Kind, oldName, newName string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.library(doc, kind, newName)
	if err != nil {
		return err
	}
	i := slices.Index(d.libraries[kind], oldName)
	if i < 0 {
		return fmt.Errorf("%w: %s %q", ErrUnknownLibrary, kind, oldName)
	}
	if oldName == newName {
		return nil
	}
	if slices.Contains(d.libraries[kind], newName) {
		return fmt.Errorf("%w: %s %q", ErrLibraryExists, kind, newName)
	}
	if err := w.graph.CheckName(doc, kind, newName); err != nil {
		return err
	}

	d.libraries[kind][i] = newName
	if err := w.graph.RemoveName(doc, kind, oldName); err != nil {
		return err
	}
	if err := w.graph.AddName(doc, kind, newName); err != nil {
		d.libraries[kind][i] = oldName
		_ = w.graph.AddName(doc, kind, oldName)
		return err
	}

	for _, p := range w.pointers {
		if p.Target == doc && p.Kind == kind && p.Library == oldName {
			p.Library = newName
		}
	}
	w.opts.Logger.Debug("library renamed", "doc", doc, "kind", kind, "from", oldName, "to", newName)
	return nil
}

// RemoveLibrary removes a library declaration. It fails with ErrLibraryInUse
// while any pointer targets the library.
func (w *Workspace) RemoveLibrary(doc federation.DocID, kind federation.Kind, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d, err := w.library(doc, kind, name)
	if err != nil {
		return err
	}
	i := slices.Index(d.libraries[kind], name)
	if i < 0 {
		return fmt.Errorf("%w: %s %q", ErrUnknownLibrary, kind, name)
	}
	for _, p := range w.pointers {
		if p.Target == doc && p.Kind == kind && p.Library == name {
			return fmt.Errorf("%w: %s %q", ErrLibraryInUse, kind, name)
		}
	}

	d.libraries[kind] = slices.Delete(d.libraries[kind], i, i+1)
	if err := w.graph.RemoveName(doc, kind, name); err != nil {
		return err
	}
	w.opts.Logger.Debug("library removed", "doc", doc, "kind", kind, "name", name)
	return nil
}

// Libraries returns the libraries of kind declared in doc, in declaration order.
func (w *Workspace) Libraries(doc federation.DocID, kind federation.Kind) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(view{w}.LibraryNames(doc, kind))
}

// library validates the arguments shared by the library mutations.
func (w *Workspace) library(doc federation.DocID, kind federation.Kind, name string) (*document, error) {
	d, err := w.document(doc)
	if err != nil {
		return nil, err
	}
	if !kind.IsLibrary() {
		return nil, fmt.Errorf("%w: %s", federation.ErrInvalidKind, kind)
	}
	if name == "" {
		return nil, ErrInvalidName
	}
	return d, nil
}
