package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	errs "github.com/matzehuels/amlfed/pkg/errors"
	"github.com/matzehuels/amlfed/pkg/federation"
	pkgio "github.com/matzehuels/amlfed/pkg/io"
	"github.com/matzehuels/amlfed/pkg/observability"
)

const pumpID = "3f2a9c4e-8b1d-4e6f-9a0c-5d7e8f9a0b1c"

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testdata(name string) string { return filepath.Join("testdata", name) }

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode errs.Code
	}{
		{"consistent", []string{"check", testdata("federation.toml")}, ""},
		{"require explicit", []string{"check", "--require-explicit", testdata("federation.toml")}, ""},
		{"cycle", []string{"check", testdata("cycle.toml")}, errs.ErrCodeCycleDetected},
		{"collision", []string{"check", testdata("collision.toml")}, errs.ErrCodeNamespaceCollision},
		{"missing", []string{"check", testdata("missing.toml")}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errs.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestCheckCycleKeepsPath(t *testing.T) {
	_, err := execute(t, "check", testdata("cycle.toml"))
	var cycle *federation.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("error = %v, want *federation.CycleError", err)
	}
	if got := strings.Join(cycle.Locations, " "); got != "c.aml a.aml b.aml c.aml" {
		t.Errorf("cycle = %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode errs.Code
	}{
		{"forward library", []string{"plant.aml", "--kind", "role", "--name", "BaseRoles"}, "base.aml", ""},
		{"transitive library", []string{"plant.aml", "--kind", "systemunit", "--name", "Units"}, "lib.aml", ""},
		{"own library", []string{"plant.aml", "--kind", "role", "--name", "PlantRoles"}, "plant.aml", ""},
		{"backward library", []string{"base.aml", "--kind", "role", "--name", "PlantRoles"}, "plant.aml", ""},
		{"identifier", []string{"plant.aml", "--id", pumpID}, "base.aml", ""},
		{"unresolved", []string{"lib.aml", "--kind", "interface", "--name", "Missing"}, "", errs.ErrCodeUnresolved},
		{"bad kind", []string{"plant.aml", "--kind", "widget", "--name", "X"}, "", errs.ErrCodeInvalidKind},
		{"bad id", []string{"plant.aml", "--id", "not-a-uuid"}, "", errs.ErrCodeInvalidInput},
		{"unknown document", []string{"nowhere.aml", "--id", pumpID}, "", errs.ErrCodeDocumentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"resolve", testdata("federation.toml")}, tt.args...)
			out, err := execute(t, args...)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("resolved to %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveFlags(t *testing.T) {
	for _, args := range [][]string{
		{"plant.aml"},
		{"plant.aml", "--name", "BaseRoles"},
		{"plant.aml", "--kind", "role", "--name", "BaseRoles", "--id", pumpID},
	} {
		full := append([]string{"resolve", testdata("federation.toml")}, args...)
		if _, err := execute(t, full...); err == nil {
			t.Errorf("resolve %v: expected flag error", args)
		}
	}
}

func TestScopeJSON(t *testing.T) {
	tests := []struct {
		location     string
		wantForward  []string
		wantBackward []string
	}{
		{"plant.aml", []string{"base.aml", "lib.aml"}, nil},
		{"lib.aml", []string{"base.aml"}, []string{"plant.aml"}},
		{"base.aml", nil, []string{"lib.aml", "plant.aml"}},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			out, err := execute(t, "scope", testdata("federation.toml"), tt.location, "--json")
			if err != nil {
				t.Fatalf("scope: %v", err)
			}
			var doc pkgio.Document
			if err := json.Unmarshal([]byte(out), &doc); err != nil {
				t.Fatalf("decode %q: %v", out, err)
			}
			if doc.Location != tt.location {
				t.Errorf("location = %q", doc.Location)
			}
			if !slices.Equal(doc.Scope.Forward, tt.wantForward) {
				t.Errorf("forward = %v, want %v", doc.Scope.Forward, tt.wantForward)
			}
			if !slices.Equal(doc.Scope.Backward, tt.wantBackward) {
				t.Errorf("backward = %v, want %v", doc.Scope.Backward, tt.wantBackward)
			}
		})
	}
}

func TestScopeUnknownDocument(t *testing.T) {
	_, err := execute(t, "scope", testdata("federation.toml"), "nowhere.aml")
	if !errs.Is(err, errs.ErrCodeDocumentNotFound) {
		t.Fatalf("error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestGraph(t *testing.T) {
	t.Run("dot", func(t *testing.T) {
		out, err := execute(t, "graph", testdata("federation.toml"), "--highlight", "lib.aml")
		if err != nil {
			t.Fatalf("graph: %v", err)
		}
		for _, want := range []string{"digraph G {", `"plant.aml" -> "lib.aml"`, `"lib.aml" -> "base.aml"`} {
			if !strings.Contains(out, want) {
				t.Errorf("dot output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "graph", testdata("federation.toml"), "-f", "json")
		if err != nil {
			t.Fatalf("graph: %v", err)
		}
		report, err := pkgio.ReadJSON(strings.NewReader(out))
		if err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if report.Stats.Documents != 3 {
			t.Errorf("documents = %d, want 3", report.Stats.Documents)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "federation.dot")
		out, err := execute(t, "graph", testdata("federation.toml"), "-o", path, "--detailed")
		if err != nil {
			t.Fatalf("graph: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if !bytes.Contains(data, []byte("RC: PlantRoles")) {
			t.Errorf("detailed labels missing:\n%s", data)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "graph", testdata("federation.toml"), "-f", "png")
		if !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Fatalf("error = %v, want UNSUPPORTED", err)
		}
	})

	t.Run("unknown highlight", func(t *testing.T) {
		_, err := execute(t, "graph", testdata("federation.toml"), "--highlight", "nowhere.aml")
		if !errs.Is(err, errs.ErrCodeDocumentNotFound) {
			t.Fatalf("error = %v, want DOCUMENT_NOT_FOUND", err)
		}
	})
}

func TestCompletion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "amlfed") {
			t.Errorf("completion %s does not mention amlfed", shell)
		}
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetLogLevel(LogDebug)

	if _, ok := observability.Federation().(*logHooks); !ok {
		t.Fatalf("federation hooks = %T, want *logHooks", observability.Federation())
	}
	if _, ok := observability.Manifest().(*logHooks); !ok {
		t.Fatalf("manifest hooks = %T, want *logHooks", observability.Manifest())
	}
}
