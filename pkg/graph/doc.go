// Package graph provides the serialization format for computed tech paths.
//
// A layout file captures everything the renderer needs, so layout and
// rendering can run as separate steps (techpath layout, then techpath
// visualize) and a render can be repeated without the replay or its parser:
//
//	{
//	  "version": 1,
//	  "player": {"id": 1, "name": "Alice", "race": "Protoss", "is_winner": true},
//	  "time_mode": "decimal",
//	  "nodes": [{"name": "Probe", "time": 0.05, "size": 1500, "color_key": 0.05,
//	             "count": 2, "index": 0, "x": 0, "y": 0.42}],
//	  "edges": [{"from": "Probe", "to": "Pylon", "label": "0.20", "time": 0.2, "index": 1}],
//	  "spring": {"k": 0.9, "iterations": 50, "seed": 42}
//	}
//
// Use [FromTechPath] to capture a built graph and layout, [Layout.TechGraph]
// and [Layout.Positions] to restore them, and [WriteLayoutFile] /
// [ReadLayoutFile] for files.
package graph
