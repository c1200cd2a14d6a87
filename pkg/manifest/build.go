package manifest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/observability"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

// Build validates m and replays it against a new workspace. The manifest's
// require_explicit_path setting is OR-ed into opts.
//
// Engine rejections (cycles, collisions, missing explicit paths) are returned
// as *errs.Error values carrying the matching modeling code and naming the
// document, reference or pointer that failed. The failed workspace is
// discarded.
func Build(m *Manifest, opts workspace.Options) (ws *workspace.Workspace, err error) {
	start := time.Now()
	observability.Manifest().OnBuildStart(m.Source)
	defer func() {
		n := 0
		if ws != nil {
			n = len(m.Documents)
		}
		observability.Manifest().OnBuildComplete(m.Source, n, time.Since(start), err)
	}()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	opts.RequireExplicitPath = opts.RequireExplicitPath || m.RequireExplicitPath
	w := workspace.New(opts)

	ids := make(map[string]federation.DocID, len(m.Documents))
	for _, d := range m.Documents {
		id, err := w.Open(d.Location)
		if err != nil {
			return nil, modelError(err, "open %q", d.Location)
		}
		ids[d.Location] = id
	}

	for _, d := range m.Documents {
		doc := ids[d.Location]
		for _, kind := range federation.LibraryKinds {
			for _, name := range d.libraries()[kind] {
				if err := w.AddLibrary(doc, kind, name); err != nil {
					return nil, modelError(err, "document %q: %s %q", d.Location, kind, name)
				}
			}
		}
		if err := addElements(w, doc, uuid.Nil, d.Elements); err != nil {
			return nil, modelError(err, "document %q", d.Location)
		}
	}

	for _, d := range m.Documents {
		for _, ref := range d.References {
			if err := w.AddReference(ids[d.Location], ids[ref]); err != nil {
				return nil, modelError(err, "document %q: reference %q", d.Location, ref)
			}
		}
	}

	for _, d := range m.Documents {
		for i, p := range d.Pointers {
			if err := addPointer(w, ids[d.Location], p); err != nil {
				return nil, modelError(err, "document %q: pointer %d", d.Location, i+1)
			}
		}
	}

	return w, nil
}

func addElements(w *workspace.Workspace, doc federation.DocID, parent uuid.UUID, elements []Element) error {
	for _, e := range elements {
		id := uuid.Nil
		if e.ID != "" {
			id = uuid.MustParse(e.ID) // checked by Validate
		}
		created, err := w.AddElement(doc, parent, e.Name, id)
		if err != nil {
			return fmt.Errorf("element %q: %w", e.Name, err)
		}
		if err := addElements(w, doc, created, e.Elements); err != nil {
			return err
		}
	}
	return nil
}

func addPointer(w *workspace.Workspace, doc federation.DocID, p Pointer) error {
	if p.Element != "" {
		_, err := w.PointToElement(doc, uuid.MustParse(p.Element))
		return err
	}
	kind, err := federation.ParseKind(p.Kind)
	if err != nil {
		return err
	}
	_, err = w.PointToClass(doc, kind, p.Library)
	return err
}

// modelError attaches manifest context to an engine or workspace error and
// keeps its modeling code.
func modelError(err error, format string, args ...any) error {
	code := errs.GetCode(errs.FromModel(err))
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return errs.Wrap(code, err, format, args...)
}
