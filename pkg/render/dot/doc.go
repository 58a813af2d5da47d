// Package dot exports display trees as Graphviz diagrams.
//
// [ToDOT] produces DOT source for a tree; [RenderSVG] lays it out in-process
// with [github.com/goccy/go-graphviz]. The display settings of a conversion
// map onto graph attributes:
//
//   - FontSizeFactor scales the node font size
//   - ExpansionFactor scales the distance between tree levels
//   - SweepFactor scales the distance between siblings
//   - Orientation selects the layout: "radial" uses twopi with the root at the
//     center; "north", "south", "east" and "west" use dot with the root on
//     that side
//
// Node kinds get distinct shapes so that synthetic nodes (relations, groups,
// truncation markers) stand out from concepts:
//
//	dotSrc := dot.ToDOT(res.Tree, dot.Options{Settings: res.Settings, Images: res.Images})
//	svg, err := dot.RenderSVG(ctx, dotSrc)
package dot
