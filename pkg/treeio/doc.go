// Package treeio provides the JSON wire format for display trees.
//
// The format is used for CLI output, HTTP responses and the tree cache. It
// carries the tree together with everything a renderer needs next to it:
// display settings, the image list the decorator built, and the conversion
// report.
//
//	{
//	  "version": 1,
//	  "settings": {"font_size_factor": 1, "expansion_factor": 1, "sweep_factor": 1},
//	  "images": ["root", "relation/hypernym", "concept/noun.animal"],
//	  "report": {"lookups": 4, "cycles": 0, "truncated": 0, "omitted": 0, "mounts": 1},
//	  "root": {
//	    "id": "n0", "kind": "concept", "label": "dog", "image": 0,
//	    "children": [{"id": "n1", "kind": "relation", "label": "hypernym", ...}]
//	  }
//	}
//
// Round trips are lossless for every presentation attribute, node ID and
// child order:
//
//	data, _ := treeio.Marshal(doc)
//	back, _ := treeio.Unmarshal(data)
package treeio
