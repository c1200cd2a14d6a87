// Package manifest loads federation manifests and builds workspaces from them.
//
// A manifest lists the documents of a federation with their library
// declarations, internal elements, explicit references and pointers. TOML is
// the primary format; JSON with the same structure is accepted as well:
//
//	require_explicit_path = true
//
//	[[document]]
//	location = "plant.aml"
//	role_libraries = ["PlantRoles"]
//	references = ["base.aml"]
//
//	  [[document.element]]
//	  name = "Tank"
//	  id = "5b0e8a52-0f34-4c38-9d43-1c4c0a8e7b10"
//
//	  [[document.pointer]]
//	  kind = "role"
//	  library = "BaseRoles"
//
// [Build] replays a manifest against a fresh [workspace.Workspace], in an
// order that lets the federation engine validate every step: documents,
// then declarations, then references, then pointers.
package manifest

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/amlfed/pkg/errors"
)

// Format selects a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Manifest is the decoded form of a federation manifest.
type Manifest struct {
	RequireExplicitPath bool       `toml:"require_explicit_path" json:"require_explicit_path,omitempty"`
	Documents           []Document `toml:"document" json:"documents"`

	// Source is the path the manifest was loaded from, if any.
	Source string `toml:"-" json:"-"`
}

// Document is one federated document.
type Document struct {
	Location            string    `toml:"location" json:"location"`
	InterfaceLibraries  []string  `toml:"interface_libraries" json:"interface_libraries,omitempty"`
	RoleLibraries       []string  `toml:"role_libraries" json:"role_libraries,omitempty"`
	SystemUnitLibraries []string  `toml:"system_unit_libraries" json:"system_unit_libraries,omitempty"`
	References          []string  `toml:"references" json:"references,omitempty"`
	Elements            []Element `toml:"element" json:"elements,omitempty"`
	Pointers            []Pointer `toml:"pointer" json:"pointers,omitempty"`
}

// Element is an internal element. An empty ID is generated at build time.
type Element struct {
	Name     string    `toml:"name" json:"name"`
	ID       string    `toml:"id" json:"id,omitempty"`
	Elements []Element `toml:"element" json:"elements,omitempty"`
}

// Pointer targets either a class library (Kind and Library) or an element (Element).
type Pointer struct {
	Kind    string `toml:"kind" json:"kind,omitempty"`
	Library string `toml:"library" json:"library,omitempty"`
	Element string `toml:"element" json:"element,omitempty"`
}

// FormatFromPath picks the format by file extension, defaulting to TOML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	if err := errs.ValidateManifestFilename(filepath.Base(path)); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "open manifest %s", path)
	}
	defer f.Close()

	m, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	m.Source = path
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode reads a manifest in the given format. Unknown TOML keys are
// rejected so that misspelled fields do not go unnoticed.
func Decode(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "unknown key %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "decode json")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported manifest format %q (must be toml or json)", format)
	}
	return &m, nil
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Manifest, format Format) error {
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported manifest format %q (must be toml or json)", format)
}
