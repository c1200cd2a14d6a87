// Package io exports federation reports as JSON.
//
// # Overview
//
// A report is a flattened, location-keyed copy of a [workspace.Snapshot]:
// every document with its declarations, its ordered explicit references,
// its implicit reference counts and its resolved scope. It is meant for
// tooling that inspects a federation without linking against the engine.
//
// # JSON Format
//
//	{
//	  "documents": [
//	    {
//	      "location": "plant.aml",
//	      "role_libraries": ["PlantRoles"],
//	      "references": ["base.aml"],
//	      "implicit": [{"to": "base.aml", "count": 1}],
//	      "scope": {
//	        "forward": ["base.aml"],
//	        "entries": [
//	          {"kind": "role", "name": "BaseRoles", "owner": "base.aml"},
//	          {"kind": "role", "name": "PlantRoles", "owner": "plant.aml"}
//	        ]
//	      }
//	    }
//	  ],
//	  "stats": {"documents": 2, "explicit_edges": 1, "implicit_pairs": 1, "direct_edges": 1}
//	}
//
// Entry kinds are "interface", "role", "systemunit" and "identifier".
// Identifier entries carry "id" instead of "name". Entries owned by a document
// in the backward set have "backward": true.
//
// # Export
//
// Use [ExportJSON] to write a report to a file, or [WriteJSON] to write to
// any io.Writer:
//
//	snap, err := ws.Snapshot()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.ExportJSON(snap, "federation.json")
//
// [ReadJSON] decodes a report back into a [Report] value.
//
// [workspace.Snapshot]: github.com/matzehuels/amlfed/pkg/workspace.Snapshot
package io
