package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/amlfed/pkg/federation"
	"github.com/matzehuels/amlfed/pkg/workspace"
)

var kindToString = map[federation.Kind]string{
	federation.KindInterfaceLibrary:  "interface",
	federation.KindRoleLibrary:       "role",
	federation.KindSystemUnitLibrary: "systemunit",
	federation.KindIdentifier:        "identifier",
}

// Report is the JSON form of a workspace snapshot. Documents are referred to
// by location throughout.
type Report struct {
	Documents []Document `json:"documents"`
	Stats     Stats      `json:"stats"`
}

// Document is one document of a [Report].
type Document struct {
	Location            string     `json:"location"`
	InterfaceLibraries  []string   `json:"interface_libraries,omitempty"`
	RoleLibraries       []string   `json:"role_libraries,omitempty"`
	SystemUnitLibraries []string   `json:"system_unit_libraries,omitempty"`
	Elements            int        `json:"elements,omitempty"`
	References          []string   `json:"references,omitempty"`
	Implicit            []Implicit `json:"implicit,omitempty"`
	Scope               Scope      `json:"scope"`
}

// Implicit is an implicit reference count towards one document.
type Implicit struct {
	To    string `json:"to"`
	Count int    `json:"count"`
}

// Scope lists the documents and declarations visible from a document.
type Scope struct {
	Forward  []string `json:"forward,omitempty"`
	Backward []string `json:"backward,omitempty"`
	Entries  []Entry  `json:"entries,omitempty"`
}

// Entry is one declaration visible in a scope.
type Entry struct {
	Kind     string    `json:"kind"`
	Name     string    `json:"name,omitempty"`
	ID       uuid.UUID `json:"id,omitzero"`
	Owner    string    `json:"owner"`
	Backward bool      `json:"backward,omitempty"`
}

// Stats mirrors [federation.Stats].
type Stats struct {
	Documents     int `json:"documents"`
	ExplicitEdges int `json:"explicit_edges"`
	ImplicitPairs int `json:"implicit_pairs"`
	DirectEdges   int `json:"direct_edges"`
}

// NewReport converts a snapshot into its JSON form.
func NewReport(snap workspace.Snapshot) Report {
	locations := make(map[federation.DocID]string, len(snap.Documents))
	for _, d := range snap.Documents {
		locations[d.ID] = d.Location
	}
	names := func(ids []federation.DocID) []string {
		if len(ids) == 0 {
			return nil
		}
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = locations[id]
		}
		return out
	}

	r := Report{
		Documents: make([]Document, len(snap.Documents)),
		Stats: Stats{
			Documents:     snap.Stats.Documents,
			ExplicitEdges: snap.Stats.ExplicitEdges,
			ImplicitPairs: snap.Stats.ImplicitPairs,
			DirectEdges:   snap.Stats.DirectEdges,
		},
	}
	for i, d := range snap.Documents {
		doc := Document{
			Location:            d.Location,
			InterfaceLibraries:  d.Libraries[federation.KindInterfaceLibrary],
			RoleLibraries:       d.Libraries[federation.KindRoleLibrary],
			SystemUnitLibraries: d.Libraries[federation.KindSystemUnitLibrary],
			Elements:            d.Elements,
			References:          names(d.References),
			Scope: Scope{
				Forward:  names(d.Scope.Forward),
				Backward: names(d.Scope.Backward),
			},
		}
		for _, im := range d.Implicit {
			doc.Implicit = append(doc.Implicit, Implicit{To: locations[im.Target], Count: im.Count})
		}
		for _, e := range d.Scope.Entries {
			doc.Scope.Entries = append(doc.Scope.Entries, Entry{
				Kind:     kindToString[e.Kind],
				Name:     e.Name,
				ID:       e.ID,
				Owner:    locations[e.Owner],
				Backward: e.Backward,
			})
		}
		r.Documents[i] = doc
	}
	return r
}

// WriteJSON encodes a workspace snapshot as an indented JSON report and
// writes it to w. The output can be read back with [ReadJSON].
func WriteJSON(snap workspace.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(snap)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot report to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(snap workspace.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(snap, f)
}

// ReadJSON decodes a report written by [WriteJSON].
func ReadJSON(r io.Reader) (Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, fmt.Errorf("decode: %w", err)
	}
	return rep, nil
}
